package repository

import (
	"context"
	"strings"

	"civicreport/model"

	"cloud.google.com/go/firestore"
)

// FirestoreUserRepository stores users under their escaped email, which
// doubles as the user id.
type FirestoreUserRepository struct {
	Client *firestore.Client
}

func (r *FirestoreUserRepository) col() *firestore.CollectionRef {
	return r.Client.Collection(usersCollection)
}

func (r *FirestoreUserRepository) CreateIfMissing(ctx context.Context, user *model.User) (bool, error) {
	ref := r.col().Doc(docKey(user.Email))
	if _, err := ref.Create(ctx, user); err != nil {
		if fsErr(err) == ErrDuplicate {
			return false, nil
		}
		return false, err
	}
	user.ID = ref.ID
	return true, nil
}

func (r *FirestoreUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.GetByID(ctx, docKey(email))
}

func (r *FirestoreUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		return nil, fsErr(err)
	}
	return userFromSnapshot(snap)
}

func userFromSnapshot(snap *firestore.DocumentSnapshot) (*model.User, error) {
	var user model.User
	if err := snap.DataTo(&user); err != nil {
		return nil, err
	}
	user.ID = snap.Ref.ID
	return &user, nil
}

func (r *FirestoreUserRepository) UpdateProfile(ctx context.Context, email, displayName, photoURL string) (*model.User, error) {
	ref := r.col().Doc(docKey(email))
	if _, err := ref.Update(ctx, []firestore.Update{
		{Path: "displayName", Value: displayName},
		{Path: "photoURL", Value: photoURL},
	}); err != nil {
		return nil, fsErr(err)
	}
	return r.GetByEmail(ctx, email)
}

func (r *FirestoreUserRepository) SetRole(ctx context.Context, id string, role model.Role) error {
	_, err := r.col().Doc(id).Update(ctx, []firestore.Update{
		{Path: "role", Value: string(role)},
	})
	return fsErr(err)
}

func (r *FirestoreUserRepository) SetRoleByEmail(ctx context.Context, email string, role model.Role, onlyFrom ...model.Role) (bool, error) {
	ref := r.col().Doc(docKey(email))
	changed := false
	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		changed = false
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		user, err := userFromSnapshot(snap)
		if err != nil {
			return err
		}
		if user.Role == role || !roleAllowed(user.Role, onlyFrom) {
			return nil
		}
		changed = true
		return tx.Update(ref, []firestore.Update{{Path: "role", Value: string(role)}})
	})
	return changed, fsErr(err)
}

// Search scans users newest first; Firestore has no case-insensitive
// substring operator.
func (r *FirestoreUserRepository) Search(ctx context.Context, term string, limit int) ([]model.User, error) {
	iter := r.col().OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	docs, err := iter.GetAll()
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(term)
	users := []model.User{}
	for _, doc := range docs {
		user, err := userFromSnapshot(doc)
		if err != nil {
			return nil, err
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(user.DisplayName), term) &&
			!strings.Contains(strings.ToLower(user.Email), term) {
			continue
		}
		users = append(users, *user)
		if limit > 0 && len(users) == limit {
			break
		}
	}
	return users, nil
}
