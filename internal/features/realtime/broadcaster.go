package realtime

import (
	"go-bighil/internal/features/notification"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Broadcaster turns domain outcomes into room events on the outbox.
type Broadcaster struct {
	dispatcher *Dispatcher
}

func NewBroadcaster(dispatcher *Dispatcher) *Broadcaster {
	return &Broadcaster{dispatcher: dispatcher}
}

func (b *Broadcaster) NotifyDeliveries(deliveries []notification.Delivery) {
	for _, d := range deliveries {
		room := AdminRoom(d.TargetID)
		if d.TargetKind == notification.TargetUser {
			room = UserRoom(d.TargetID)
		}
		b.dispatcher.Enqueue(NewEvent(room, EventNotification, d.Notification))
	}
}

func (b *Broadcaster) EmitComplaint(complaintID primitive.ObjectID, name string, payload interface{}) {
	b.dispatcher.Enqueue(NewEvent(ComplaintRoom(complaintID), name, payload))
}
