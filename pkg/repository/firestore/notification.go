package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/doc-forge-buddy/docforge/pkg/domain/interfaces"
	"github.com/doc-forge-buddy/docforge/pkg/domain/model"
	"github.com/doc-forge-buddy/docforge/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const notificationsCollection = "notifications"

type notificationRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.NotificationRepository = &notificationRepository{}

func newNotificationRepository(client *firestore.Client) *notificationRepository {
	return &notificationRepository{client: client}
}

type notificationMetadataDoc struct {
	ContractID    string `firestore:"contract_id,omitempty"`
	VistoriaID    string `firestore:"vistoria_id,omitempty"`
	DaysRemaining *int   `firestore:"days_remaining,omitempty"`
	Date          string `firestore:"date,omitempty"`
}

// notificationDoc is the Firestore persistence model. Optional timestamps
// are pointers so that missing values never match range queries.
type notificationDoc struct {
	ID        string                  `firestore:"id"`
	UserID    string                  `firestore:"user_id"`
	Type      string                  `firestore:"type"`
	Title     string                  `firestore:"title"`
	Message   string                  `firestore:"message"`
	Metadata  notificationMetadataDoc `firestore:"metadata"`
	Priority  string                  `firestore:"priority"`
	Read      bool                    `firestore:"read"`
	ReadAt    *time.Time              `firestore:"read_at,omitempty"`
	CreatedAt time.Time               `firestore:"created_at"`
	ExpiresAt *time.Time              `firestore:"expires_at,omitempty"`
}

func (r *notificationRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, notificationsCollection))
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func toNotificationDoc(n *model.Notification) *notificationDoc {
	return &notificationDoc{
		ID:      string(n.ID),
		UserID:  string(n.UserID),
		Type:    string(n.Type),
		Title:   n.Title,
		Message: n.Message,
		Metadata: notificationMetadataDoc{
			ContractID:    string(n.Metadata.ContractID),
			VistoriaID:    string(n.Metadata.VistoriaID),
			DaysRemaining: n.Metadata.DaysRemaining,
			Date:          n.Metadata.Date,
		},
		Priority:  string(n.Priority),
		Read:      n.Read,
		ReadAt:    optionalTime(n.ReadAt),
		CreatedAt: n.CreatedAt,
		ExpiresAt: optionalTime(n.ExpiresAt),
	}
}

func fromNotificationDoc(d *notificationDoc) *model.Notification {
	n := &model.Notification{
		ID:      model.NotificationID(d.ID),
		UserID:  model.UserID(d.UserID),
		Type:    types.NotificationType(d.Type),
		Title:   d.Title,
		Message: d.Message,
		Metadata: model.NotificationMetadata{
			ContractID:    model.ContractID(d.Metadata.ContractID),
			VistoriaID:    model.InspectionID(d.Metadata.VistoriaID),
			DaysRemaining: d.Metadata.DaysRemaining,
			Date:          d.Metadata.Date,
		},
		Priority:  types.NotificationPriority(d.Priority),
		Read:      d.Read,
		CreatedAt: d.CreatedAt,
	}
	if d.ReadAt != nil {
		n.ReadAt = *d.ReadAt
	}
	if d.ExpiresAt != nil {
		n.ExpiresAt = *d.ExpiresAt
	}
	return n
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	if n == nil || n.UserID == "" {
		return nil, goerr.New("notification owner is required")
	}
	if !n.Type.IsValid() {
		return nil, goerr.New("invalid notification type", goerr.V("type", n.Type))
	}

	created := *n
	if created.ID == "" {
		created.ID = model.NewNotificationID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	if created.Priority == "" {
		created.Priority = types.NotificationPriorityNormal
	}

	if _, err := r.collection().Doc(string(created.ID)).Create(ctx, toNotificationDoc(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create notification",
			goerr.V("id", created.ID),
			goerr.V("user_id", created.UserID))
	}

	return &created, nil
}

func (r *notificationRepository) FindRecent(ctx context.Context, userID model.UserID, ref model.EntityRef, notificationTypes []types.NotificationType, since time.Time) ([]*model.Notification, error) {
	if len(notificationTypes) == 0 {
		return nil, nil
	}
	typeValues := make([]string, len(notificationTypes))
	for i, t := range notificationTypes {
		typeValues[i] = string(t)
	}

	iter := r.collection().
		Where("user_id", "==", string(userID)).
		Where("metadata."+string(ref.Kind), "==", ref.ID).
		Where("type", "in", typeValues).
		Where("created_at", ">=", since).
		Documents(ctx)
	defer iter.Stop()

	return r.collect(iter, goerr.V("user_id", userID), goerr.V("entity_id", ref.ID))
}

func (r *notificationRepository) List(ctx context.Context, userID model.UserID, unreadOnly bool) ([]*model.Notification, error) {
	iter := r.collection().
		Where("user_id", "==", string(userID)).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	all, err := r.collect(iter, goerr.V("user_id", userID))
	if err != nil {
		return nil, err
	}

	result := make([]*model.Notification, 0, len(all))
	for _, n := range all {
		if unreadOnly && n.Read {
			continue
		}
		result = append(result, n)
	}
	return result, nil
}

func (r *notificationRepository) collect(iter *firestore.DocumentIterator, values ...goerr.Option) ([]*model.Notification, error) {
	var result []*model.Notification
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate notifications", values...)
		}

		var d notificationDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal notification", goerr.V("docID", doc.Ref.ID))
		}
		result = append(result, fromNotificationDoc(&d))
	}
	return result, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID model.UserID, id model.NotificationID, at time.Time) error {
	ref := r.collection().Doc(string(id))

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "notification not found", goerr.V("id", id))
			}
			return goerr.Wrap(err, "failed to get notification", goerr.V("id", id))
		}

		var d notificationDoc
		if err := snap.DataTo(&d); err != nil {
			return goerr.Wrap(err, "failed to unmarshal notification", goerr.V("id", id))
		}
		if d.UserID != string(userID) {
			return goerr.Wrap(ErrNotFound, "notification not found", goerr.V("id", id), goerr.V("user_id", userID))
		}

		return tx.Update(ref, []firestore.Update{
			{Path: "read", Value: true},
			{Path: "read_at", Value: at},
		})
	})
}

// CleanupExpired deletes notifications that expired before now and those
// already read. Both queries use single-field indexes only. When some
// deletes fail, the count of confirmed deletes is returned with the error.
func (r *notificationRepository) CleanupExpired(ctx context.Context, now time.Time) (int, error) {
	refs := make(map[string]*firestore.DocumentRef)

	queries := []firestore.Query{
		r.collection().Where("expires_at", "<", now),
		r.collection().Where("read", "==", true),
	}
	for _, q := range queries {
		iter := q.Documents(ctx)
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				iter.Stop()
				return 0, goerr.Wrap(err, "failed to iterate notifications for cleanup")
			}
			refs[doc.Ref.ID] = doc.Ref
		}
		iter.Stop()
	}

	if len(refs) == 0 {
		return 0, nil
	}

	bulkWriter := r.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(refs))
	for _, ref := range refs {
		job, err := bulkWriter.Delete(ref)
		if err != nil {
			bulkWriter.End()
			return 0, goerr.Wrap(err, "failed to add Delete operation to bulk writer")
		}
		jobs = append(jobs, job)
	}
	bulkWriter.End()

	deleted := 0
	var lastErr error
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			lastErr = err
			continue
		}
		deleted++
	}
	if lastErr != nil {
		return deleted, goerr.Wrap(lastErr, "failed to delete notifications",
			goerr.V("requested", len(refs)),
			goerr.V("deleted", deleted))
	}

	return deleted, nil
}
