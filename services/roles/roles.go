package roles

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"

	"pfpMint/services/pricing"
)

// Directory resolves the role a member is priced at once the public sale is over.
type Directory interface {
	HighestRole(ctx context.Context, username string) (string, error)
}

var _ pricing.RoleLookup = (Directory)(nil)

// Static answers the same role for everyone.
type Static struct {
	Role string
}

var _ Directory = Static{}

func NewStatic() Static {
	return Static{Role: pricing.DefaultRole}
}

func (s Static) HighestRole(context.Context, string) (string, error) {
	if s.Role == "" {
		return pricing.DefaultRole, nil
	}
	return s.Role, nil
}

const collection = "roles"

// Record is a document in the roles collection.
type Record struct {
	Username string `firestore:"username"`
	Role     string `firestore:"role"`
}

type firestoreDirectory struct {
	db *firestore.Client
}

var _ Directory = (*firestoreDirectory)(nil)

func NewFirestore(db *firestore.Client) Directory {
	return &firestoreDirectory{db: db}
}

// HighestRole returns the stored role for username, or the default role when
// none is stored.
func (d *firestoreDirectory) HighestRole(ctx context.Context, username string) (string, error) {
	iter := d.db.Collection(collection).
		Where("username", "==", username).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		log.Debug().Str("username", username).Msg("no stored role, using default")
		return pricing.DefaultRole, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query roles: %w", err)
	}
	var rec Record
	if err := doc.DataTo(&rec); err != nil {
		return "", fmt.Errorf("failed to decode role for %s: %w", username, err)
	}
	if rec.Role == "" {
		return pricing.DefaultRole, nil
	}
	return rec.Role, nil
}
