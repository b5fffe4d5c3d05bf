package condo

import (
	"context"
	"sort"
	"time"

	"github.com/okfngroup/hr-selfservice/internal/models"
	"github.com/okfngroup/hr-selfservice/internal/storage"
)

const (
	// FacilityID keys the published room-type document.
	FacilityID = "hanwhaSeorak"

	roomTypesCollection = "condoRoomTypes"
)

// Display labels per facility id. Unknown ids fall back to the id itself.
var facilityNames = map[string]string{
	FacilityID: "한화리조트 설악",
}

// Publisher writes the normalized room-type catalog to the document store,
// fully replacing the previous document.
type Publisher struct {
	store storage.Store
}

// NewPublisher creates a publisher backed by the given store.
func NewPublisher(store storage.Store) *Publisher {
	return &Publisher{store: store}
}

// Publish overwrites the facility's room-type document. The catalog set is
// rendered in sorted order for determinism; consumers must not depend on it.
func (p *Publisher) Publish(ctx context.Context, facilityID string, catalog map[string]struct{}) error {
	rooms := make([]string, 0, len(catalog))
	for name := range catalog {
		rooms = append(rooms, name)
	}
	sort.Strings(rooms)

	name := facilityNames[facilityID]
	if name == "" {
		name = facilityID
	}

	doc := models.CondoRoomTypes{
		Name:        name,
		Rooms:       rooms,
		LastUpdated: time.Now().UTC(),
	}
	if err := p.store.Put(ctx, roomTypesCollection, facilityID, doc); err != nil {
		return &PersistenceError{Err: err}
	}
	return nil
}

// PublishedRoomTypes loads the last published catalog document. Returns
// storage.ErrNotFound before the first successful run.
func PublishedRoomTypes(ctx context.Context, store storage.Store, facilityID string) (*models.CondoRoomTypes, error) {
	var doc models.CondoRoomTypes
	if err := store.Get(ctx, roomTypesCollection, facilityID, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
