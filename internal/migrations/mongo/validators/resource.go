package validators

import "go.mongodb.org/mongo-driver/bson"

var ResourceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"name",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "long",
				"minimum":  1,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"ip_address": bson.M{
				"bsonType": "string",
			},

			"ssh_port": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  65535,
			},

			"web_port": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  65535,
			},
		},
	},
}
