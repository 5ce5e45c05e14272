package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/PillagovulaMahesh/Travel-Diary-Platform/internal/core/domain"
)

const collectionDiaryEntries = "diaryentries"

type DiaryRepository struct {
	col *mongo.Collection
}

func NewDiaryRepository(db *mongo.Database) *DiaryRepository {
	return &DiaryRepository{col: db.Collection(collectionDiaryEntries)}
}

type mongoDiaryEntry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Date        time.Time          `bson:"date"`
	Location    string             `bson:"location"`
	Photos      []string           `bson:"photos"`
}

// Create inserts a new diary entry document.
func (r *DiaryRepository) Create(ctx context.Context, e *domain.DiaryEntry) (*domain.DiaryEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := fromDomainEntry(e)
	doc.ID = primitive.NewObjectID()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert diary entry: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *DiaryRepository) FindByID(ctx context.Context, id string) (*domain.DiaryEntry, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoDiaryEntry
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return doc.toDomain(), nil
}

// FindAll returns every entry in natural order.
func (r *DiaryRepository) FindAll(ctx context.Context) ([]*domain.DiaryEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find diary entries: %w", err)
	}

	var docs []mongoDiaryEntry
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode diary entries: %w", err)
	}

	entries := make([]*domain.DiaryEntry, len(docs))
	for i := range docs {
		entries[i] = docs[i].toDomain()
	}
	return entries, nil
}

// UpdateByID sets the fields present in patch and returns the updated document.
func (r *DiaryRepository) UpdateByID(ctx context.Context, id string, patch domain.DiaryEntryPatch) (*domain.DiaryEntry, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": patchToSet(patch)}

	var doc mongoDiaryEntry
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return doc.toDomain(), nil
}

func (r *DiaryRepository) DeleteByID(ctx context.Context, id string) (*domain.DiaryEntry, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoDiaryEntry
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return doc.toDomain(), nil
}

// patchToSet builds the $set document for the fields present in patch.
func patchToSet(p domain.DiaryEntryPatch) bson.M {
	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Date != nil {
		set["date"] = p.Date.UTC()
	}
	if p.Location != nil {
		set["location"] = *p.Location
	}
	if p.Photos != nil {
		photos := *p.Photos
		if photos == nil {
			photos = []string{}
		}
		set["photos"] = photos
	}
	return set
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	return oid, nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrEntryNotFound
	}
	return err
}

func fromDomainEntry(e *domain.DiaryEntry) mongoDiaryEntry {
	photos := e.Photos
	if photos == nil {
		photos = []string{}
	}
	return mongoDiaryEntry{
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date.UTC(),
		Location:    e.Location,
		Photos:      photos,
	}
}

func (d mongoDiaryEntry) toDomain() *domain.DiaryEntry {
	photos := d.Photos
	if photos == nil {
		photos = []string{}
	}
	return &domain.DiaryEntry{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Date:        d.Date.UTC(),
		Location:    d.Location,
		Photos:      photos,
	}
}
