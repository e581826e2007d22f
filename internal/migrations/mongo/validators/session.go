package validators

import "go.mongodb.org/mongo-driver/bson"

var SessionValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"spot_id",
			"vehicle_plate",
			"vehicle_type",
			"check_in_time",
			"open",
			"hourly_rate",
			"daily_rate",
			"payment_status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"spot_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"user_id": bson.M{
				"bsonType": "string",
			},

			"vehicle_plate": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 16,
			},

			"vehicle_type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"car",
					"motorcycle",
					"truck",
					"van",
					"other",
				},
			},

			"check_in_time": bson.M{
				"bsonType": "date",
			},

			"check_out_time": bson.M{
				"bsonType": "date",
			},

			"open": bson.M{
				"bsonType": "bool",
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

			"total_amount": bson.M{
				"bsonType": "double",
				"minimum":  0,
			},

			"payment_status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"completed",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
