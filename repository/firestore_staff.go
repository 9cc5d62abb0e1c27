package repository

import (
	"context"

	"civicreport/model"

	"cloud.google.com/go/firestore"
)

type FirestoreStaffRepository struct {
	Client *firestore.Client
}

func (r *FirestoreStaffRepository) col() *firestore.CollectionRef {
	return r.Client.Collection(staffCollection)
}

func (r *FirestoreStaffRepository) Create(ctx context.Context, staff *model.Staff) error {
	ref := r.col().NewDoc()
	if _, err := ref.Create(ctx, staff); err != nil {
		return fsErr(err)
	}
	staff.ID = ref.ID
	return nil
}

func (r *FirestoreStaffRepository) Get(ctx context.Context, id string) (*model.Staff, error) {
	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		return nil, fsErr(err)
	}
	return staffFromSnapshot(snap)
}

func staffFromSnapshot(snap *firestore.DocumentSnapshot) (*model.Staff, error) {
	var staff model.Staff
	if err := snap.DataTo(&staff); err != nil {
		return nil, err
	}
	staff.ID = snap.Ref.ID
	return &staff, nil
}

func (r *FirestoreStaffRepository) List(ctx context.Context, f StaffFilter) ([]model.Staff, error) {
	q := r.col().Query
	if f.Status != "" {
		q = q.Where("status", "==", string(f.Status))
	}
	if f.WorkStatus != "" {
		q = q.Where("workStatus", "==", string(f.WorkStatus))
	}
	if f.Email != "" {
		q = q.Where("email", "==", f.Email)
	}

	docs, err := q.OrderBy("createdAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	staff := make([]model.Staff, 0, len(docs))
	for _, doc := range docs {
		s, err := staffFromSnapshot(doc)
		if err != nil {
			return nil, err
		}
		staff = append(staff, *s)
	}
	return staff, nil
}

func (r *FirestoreStaffRepository) UpdateDecision(ctx context.Context, id string, status model.StaffStatus, workStatus model.WorkStatus) error {
	updates := []firestore.Update{{Path: "status", Value: string(status)}}
	if workStatus != "" {
		updates = append(updates, firestore.Update{Path: "workStatus", Value: string(workStatus)})
	}
	_, err := r.col().Doc(id).Update(ctx, updates)
	return fsErr(err)
}

func (r *FirestoreStaffRepository) SetWorkStatus(ctx context.Context, id string, workStatus model.WorkStatus) error {
	_, err := r.col().Doc(id).Update(ctx, []firestore.Update{
		{Path: "workStatus", Value: string(workStatus)},
	})
	return fsErr(err)
}

func (r *FirestoreStaffRepository) Delete(ctx context.Context, id string) error {
	_, err := r.col().Doc(id).Delete(ctx, firestore.Exists)
	return fsErr(err)
}
