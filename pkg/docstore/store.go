package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	pkgerrors "github.com/drcalc/drcalc-backend/pkg/errors"
	"github.com/drcalc/drcalc-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document is one self-contained JSON record in the store. Each dataset
// (catalogs, settings, recipes) lives under its own fixed key.
type Document struct {
	Key       string    `gorm:"primaryKey;column:key"`
	Body      string    `gorm:"column:body;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName keeps the table in sync with the goose migration.
func (Document) TableName() string {
	return "documents"
}

// Store reads and writes whole JSON documents keyed by dataset name.
// Reads self-heal: a missing or unparsable document is replaced with the
// provided default so subsequent reads hit valid JSON.
type Store struct {
	client *Client
	logg   *logger.Logger
}

func NewStore(client *Client, logg *logger.Logger) (*Store, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "docstore client required")
	}
	return &Store{client: client, logg: logg}, nil
}

// Load unmarshals the document under key into dest. When the row is absent
// or holds corrupt JSON, defaultDoc is written back and unmarshaled into
// dest instead; corrupt data never surfaces as an error.
func (s *Store) Load(ctx context.Context, key string, dest any, defaultDoc any) error {
	var doc Document
	err := s.client.DB().WithContext(ctx).First(&doc, "key = ?", key).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.heal(ctx, key, dest, defaultDoc)
	case err != nil:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load document")
	}

	if err := json.Unmarshal([]byte(doc.Body), dest); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithDocumentKey(ctx, key), "stored document unparsable, restoring default")
		}
		return s.heal(ctx, key, dest, defaultDoc)
	}
	return nil
}

// Save writes the canonical serialization of the full document. There are
// no partial updates; callers read-modify-write complete objects.
func (s *Store) Save(ctx context.Context, key string, doc any) error {
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode document")
	}

	record := Document{Key: key, Body: string(body), UpdatedAt: time.Now().UTC()}
	err = s.client.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
		}).
		Create(&record).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist document")
	}
	return nil
}

// Get returns the raw stored body without healing. Used by the bootstrap
// importer to decide whether a slot already holds data.
func (s *Store) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	var doc Document
	err := s.client.DB().WithContext(ctx).First(&doc, "key = ?", key).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, nil
	case err != nil:
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read document")
	}
	return json.RawMessage(doc.Body), true, nil
}

func (s *Store) heal(ctx context.Context, key string, dest any, defaultDoc any) error {
	if err := s.Save(ctx, key, defaultDoc); err != nil {
		return err
	}

	// Round-trip through JSON so dest gets a fresh copy, not shared state.
	body, err := json.Marshal(defaultDoc)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode default document")
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode default document")
	}
	return nil
}
