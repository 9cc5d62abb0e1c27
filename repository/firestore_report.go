package repository

import (
	"context"

	"civicreport/model"

	"cloud.google.com/go/firestore"
)

type FirestoreReportRepository struct {
	Client *firestore.Client
}

func (r *FirestoreReportRepository) col() *firestore.CollectionRef {
	return r.Client.Collection(reportsCollection)
}

func (r *FirestoreReportRepository) Create(ctx context.Context, report *model.Report) error {
	ref := r.col().NewDoc()
	if _, err := ref.Create(ctx, report); err != nil {
		return fsErr(err)
	}
	report.ID = ref.ID
	return nil
}

func (r *FirestoreReportRepository) Get(ctx context.Context, id string) (*model.Report, error) {
	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		return nil, fsErr(err)
	}
	return reportFromSnapshot(snap)
}

func reportFromSnapshot(snap *firestore.DocumentSnapshot) (*model.Report, error) {
	var report model.Report
	if err := snap.DataTo(&report); err != nil {
		return nil, err
	}
	report.ID = snap.Ref.ID
	return &report, nil
}

// List pushes equality filters to Firestore. Substring search and status
// exclusion have no Firestore operator that composes with the createdAt
// ordering, so they run on the fetched documents.
func (r *FirestoreReportRepository) List(ctx context.Context, f ReportFilter) ([]model.Report, error) {
	q := r.col().Query
	if f.Email != "" {
		q = q.Where("email", "==", f.Email)
	}
	if f.ReportStatus != "" {
		q = q.Where("reportStatus", "==", string(f.ReportStatus))
	}
	if f.Category != "" {
		q = q.Where("category", "==", f.Category)
	}
	if f.Priority != "" {
		q = q.Where("priority", "==", string(f.Priority))
	}
	if f.StaffID != "" {
		q = q.Where("staffId", "==", f.StaffID)
	}
	if f.StaffEmail != "" {
		q = q.Where("staffEmail", "==", f.StaffEmail)
	}
	q = q.OrderBy("createdAt", firestore.Desc)
	inProcess := f.Search != "" || f.ExcludeStatus != ""
	if f.Limit > 0 && !inProcess {
		q = q.Limit(f.Limit)
	}

	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	reports := []model.Report{}
	for _, doc := range docs {
		report, err := reportFromSnapshot(doc)
		if err != nil {
			return nil, err
		}
		if f.ExcludeStatus != "" && report.ReportStatus == f.ExcludeStatus {
			continue
		}
		if !matchesSearch(report, f.Search) {
			continue
		}
		reports = append(reports, *report)
		if f.Limit > 0 && len(reports) == f.Limit {
			break
		}
	}
	return reports, nil
}

func (r *FirestoreReportRepository) Delete(ctx context.Context, id string) error {
	_, err := r.col().Doc(id).Delete(ctx, firestore.Exists)
	return fsErr(err)
}

func (r *FirestoreReportRepository) AssignStaff(ctx context.Context, reportID string, staff model.StaffRef) error {
	reportRef := r.col().Doc(reportID)
	staffRef := r.Client.Collection(staffCollection).Doc(staff.ID)

	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(reportRef)
		if err != nil {
			return err
		}
		report, err := reportFromSnapshot(snap)
		if err != nil {
			return err
		}
		if _, err := tx.Get(staffRef); err != nil {
			return err
		}

		var previousRef *firestore.DocumentRef
		if report.StaffID != nil && *report.StaffID != "" && *report.StaffID != staff.ID {
			if previousRef, err = r.idleStaffRef(tx, *report.StaffID, reportID); err != nil {
				return err
			}
		}

		if err := tx.Update(reportRef, []firestore.Update{
			{Path: "reportStatus", Value: string(model.ReportInProgress)},
			{Path: "staffId", Value: staff.ID},
			{Path: "staffName", Value: staff.Name},
			{Path: "staffEmail", Value: staff.Email},
		}); err != nil {
			return err
		}
		if previousRef != nil {
			if err := tx.Update(previousRef, []firestore.Update{
				{Path: "workStatus", Value: string(model.WorkAvailable)},
			}); err != nil {
				return err
			}
		}
		return tx.Update(staffRef, []firestore.Update{
			{Path: "workStatus", Value: string(model.WorkWorking)},
		})
	})
	return fsErr(err)
}

func (r *FirestoreReportRepository) UpdateStatus(ctx context.Context, reportID string, status model.ReportStatus, releaseStaffID string) error {
	reportRef := r.col().Doc(reportID)

	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(reportRef); err != nil {
			return err
		}
		var staffRef *firestore.DocumentRef
		if releaseStaffID != "" {
			ref, err := r.idleStaffRef(tx, releaseStaffID, reportID)
			if err != nil {
				return err
			}
			staffRef = ref
		}

		updates := []firestore.Update{{Path: "reportStatus", Value: string(status)}}
		if !status.HoldsStaff() {
			updates = append(updates,
				firestore.Update{Path: "staffId", Value: nil},
				firestore.Update{Path: "staffName", Value: nil},
				firestore.Update{Path: "staffEmail", Value: nil},
			)
		}
		if err := tx.Update(reportRef, updates); err != nil {
			return err
		}
		if staffRef == nil {
			return nil
		}
		return tx.Update(staffRef, []firestore.Update{
			{Path: "workStatus", Value: string(model.WorkAvailable)},
		})
	})
	return fsErr(err)
}

// idleStaffRef returns the staff document to release, or nil when the staff
// is gone or another In-Progress report still names it. It only reads, so it
// runs before the transaction's writes.
func (r *FirestoreReportRepository) idleStaffRef(tx *firestore.Transaction, staffID, reportID string) (*firestore.DocumentRef, error) {
	ref := r.Client.Collection(staffCollection).Doc(staffID)
	if _, err := tx.Get(ref); err != nil {
		if fsErr(err) == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	busy := r.col().
		Where("staffId", "==", staffID).
		Where("reportStatus", "==", string(model.ReportInProgress))
	docs, err := tx.Documents(busy).GetAll()
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if doc.Ref.ID != reportID {
			return nil, nil
		}
	}
	return ref, nil
}

func (r *FirestoreReportRepository) MarkPaid(ctx context.Context, reportID, trackingID string) error {
	reportRef := r.col().Doc(reportID)

	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(reportRef)
		if err != nil {
			return err
		}
		report, err := reportFromSnapshot(snap)
		if err != nil {
			return err
		}
		if report.PaymentStatus == model.PaymentPaid {
			return nil
		}
		updates := []firestore.Update{
			{Path: "paymentStatus", Value: string(model.PaymentPaid)},
			{Path: "priority", Value: string(model.PriorityHigh)},
			{Path: "trackingId", Value: trackingID},
		}
		if report.ReportStatus == model.ReportSubmitted {
			updates = append(updates, firestore.Update{Path: "reportStatus", Value: string(model.ReportPending)})
		}
		return tx.Update(reportRef, updates)
	})
	return fsErr(err)
}
