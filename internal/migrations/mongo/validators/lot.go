package validators

import "go.mongodb.org/mongo-driver/bson"

var LotValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"hourly_rate",
			"daily_rate",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"address": bson.M{
				"bsonType":  "string",
				"maxLength": 200,
			},

			"hourly_rate": bson.M{
				"bsonType":         "double",
				"exclusiveMinimum": true,
				"minimum":          0,
			},

			"daily_rate": bson.M{
				"bsonType":         "double",
				"exclusiveMinimum": true,
				"minimum":          0,
			},

			"monthly_rate": bson.M{
				"bsonType": "double",
				"minimum":  0,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
