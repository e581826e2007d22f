package validators

import "go.mongodb.org/mongo-driver/bson"

var SpotValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"lot_id",
			"spot_number",
			"spot_type",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"lot_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"spot_number": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 10,
			},

			"spot_type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"car",
					"motorcycle",
					"truck",
					"van",
					"other",
				},
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"available",
					"occupied",
					"reserved",
					"maintenance",
				},
			},

			"accessible": bson.M{
				"bsonType": "bool",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
