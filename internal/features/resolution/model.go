package resolution

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Acknowledgement is the closed-type category recorded on a resolution.
type Acknowledgement string

const (
	AckActionTaken      Acknowledgement = "Action Taken"
	AckNoActionRequired Acknowledgement = "No Action Required"
	AckResolvedAmicably Acknowledgement = "Resolved Amicably"
	AckMarkedUnwanted   Acknowledgement = "Marked As Unwanted"
)

// ClosingAcknowledgements are the categories an admin may pick when resolving.
var ClosingAcknowledgements = []Acknowledgement{AckActionTaken, AckNoActionRequired, AckResolvedAmicably}

func (a Acknowledgement) ValidForClose() bool {
	for _, v := range ClosingAcknowledgements {
		if v == a {
			return true
		}
	}
	return false
}

// Resolution ("actionMessage") is written once per close or unwanted action.
type Resolution struct {
	ID              primitive.ObjectID `json:"id" bson:"_id"`
	ComplaintID     primitive.ObjectID `json:"complaintId" bson:"complaintId"`
	Note            string             `json:"note" bson:"note"`
	Acknowledgement Acknowledgement    `json:"acknowledgement" bson:"acknowledgement"`
	ActorID         primitive.ObjectID `json:"actorId" bson:"actorId"`
	ActorRole       string             `json:"actorRole" bson:"actorRole"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
}
