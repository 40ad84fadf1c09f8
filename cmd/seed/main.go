package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	reserrors "labslot/internal/reservations/errors"
	"labslot/internal/reservations/repository"
	"labslot/pkg/config"
	"labslot/pkg/model"
	"labslot/pkg/sanitizer"
)

const JobName = "seed"

// seedEntry mirrors the resource fields an operator provides; ids are
// assigned by the tool.
type seedEntry struct {
	Name      string `json:"name"`
	IPAddress string `json:"ip_address"`
	SSHPort   int    `json:"ssh_port"`
	WebPort   int    `json:"web_port"`
}

var defaultEntries = []seedEntry{
	{Name: "lab-server-01", IPAddress: "192.168.1.101", SSHPort: 22, WebPort: 8080},
	{Name: "lab-server-02", IPAddress: "192.168.1.102", SSHPort: 22, WebPort: 8080},
	{Name: "fpga-rig-01", IPAddress: "192.168.2.50", SSHPort: 2222, WebPort: 9090},
	{Name: "gpu-node-01", IPAddress: "192.168.3.10", SSHPort: 22, WebPort: 8888},
}

func main() {
	file := flag.String("file", "", "JSON file with resources to seed (defaults to built-in samples)")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	entries, err := loadEntries(*file)
	if err != nil {
		cfg.Log.Fatal("Failed to load seed entries", "file", *file, "error", err)
	}

	repo := repository.NewMongoResourceRepository(cfg)

	existing, err := repo.FindAll(ctx)
	if err != nil {
		cfg.Log.Fatal("Failed to load existing resources", "error", err)
	}

	var nextID int64
	for _, r := range existing {
		if r.ID > nextID {
			nextID = r.ID
		}
	}

	created := 0
	for _, entry := range entries {
		name := sanitizer.NormalizeName(entry.Name)
		if name == "" {
			cfg.Log.Warn("Skipping entry with empty name")
			continue
		}

		_, err := repo.FindByName(ctx, name)
		if err == nil {
			fmt.Printf("Resource %q already exists. Skipping.\n", name)
			continue
		}
		if !errors.Is(err, reserrors.ErrResourceNotFound) {
			cfg.Log.Fatal("Failed to check existing resource", "name", name, "error", err)
		}

		nextID++
		resource := &model.Resource{
			ID:        nextID,
			Name:      name,
			IPAddress: entry.IPAddress,
			SSHPort:   entry.SSHPort,
			WebPort:   entry.WebPort,
		}
		if err := repo.Create(ctx, resource); err != nil {
			cfg.Log.Fatal("Failed to create resource", "name", name, "error", err)
		}
		created++
		fmt.Printf("Created resource %q (id %d)\n", name, resource.ID)
	}

	fmt.Printf("Seeding done: %d created, %d skipped.\n", created, len(entries)-created)
}

func loadEntries(path string) ([]seedEntry, error) {
	if path == "" {
		return defaultEntries, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []seedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
