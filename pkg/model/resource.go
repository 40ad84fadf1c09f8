package model

// Resource is a bookable piece of shared hardware (a lab device, typically).
// Resources are loaded at startup and never mutated by the reservation
// service; the seed and migration tools own their lifecycle.
type Resource struct {
	ID        int64  `json:"id" bson:"_id" validate:"required,gt=0"`
	Name      string `json:"name" bson:"name" validate:"required,min=1,max=100"`
	IPAddress string `json:"ip_address" bson:"ip_address,omitempty" validate:"omitempty,max=45"`
	SSHPort   int    `json:"ssh_port" bson:"ssh_port,omitempty" validate:"omitempty,min=1,max=65535"`
	WebPort   int    `json:"web_port" bson:"web_port,omitempty" validate:"omitempty,min=1,max=65535"`
}
