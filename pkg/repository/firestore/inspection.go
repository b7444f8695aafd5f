package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/doc-forge-buddy/docforge/pkg/domain/interfaces"
	"github.com/doc-forge-buddy/docforge/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

const inspectionsCollection = "vistorias"

type inspectionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.InspectionRepository = &inspectionRepository{}

func newInspectionRepository(client *firestore.Client) *inspectionRepository {
	return &inspectionRepository{client: client}
}

type inspectionDoc struct {
	ID            string `firestore:"id"`
	UserID        string `firestore:"user_id"`
	ContractID    string `firestore:"contract_id"`
	Title         string `firestore:"title"`
	ScheduledDate string `firestore:"scheduled_date"`
}

func (r *inspectionRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, inspectionsCollection))
}

func (r *inspectionRepository) Put(ctx context.Context, inspection *model.Inspection) error {
	if inspection == nil || inspection.ID == "" {
		return goerr.New("inspection ID is required")
	}
	if inspection.UserID == "" {
		return goerr.New("inspection owner is required", goerr.V("vistoria_id", inspection.ID))
	}

	doc := &inspectionDoc{
		ID:            string(inspection.ID),
		UserID:        string(inspection.UserID),
		ContractID:    string(inspection.ContractID),
		Title:         inspection.Title,
		ScheduledDate: inspection.ScheduledDate,
	}
	if _, err := r.collection().Doc(doc.ID).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to save inspection", goerr.V("vistoria_id", inspection.ID))
	}
	return nil
}

func (r *inspectionRepository) ListScheduled(ctx context.Context, userID model.UserID) ([]*model.Inspection, error) {
	iter := r.collection().Where("user_id", "==", string(userID)).Documents(ctx)
	defer iter.Stop()

	var inspections []*model.Inspection
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate inspections", goerr.V("user_id", userID))
		}

		var d inspectionDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal inspection", goerr.V("docID", doc.Ref.ID))
		}

		i := &model.Inspection{
			ID:            model.InspectionID(d.ID),
			UserID:        model.UserID(d.UserID),
			ContractID:    model.ContractID(d.ContractID),
			Title:         d.Title,
			ScheduledDate: d.ScheduledDate,
		}
		if i.IsScheduled() {
			inspections = append(inspections, i)
		}
	}

	return inspections, nil
}
