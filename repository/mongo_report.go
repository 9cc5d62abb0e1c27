package repository

import (
	"context"
	"time"

	"civicreport/model"
	"civicreport/pkg/retry"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	secondWriteAttempts = 4
	secondWriteBackoff  = 100 * time.Millisecond
)

// MongoReportRepository writes coupled report/staff transitions as two
// single-document updates: the report first, then the staff write retried
// until it lands or the context ends.
type MongoReportRepository struct {
	DB *mongo.Database
}

func (r *MongoReportRepository) col() *mongo.Collection {
	return r.DB.Collection(reportsCollection)
}

func (r *MongoReportRepository) staff() *mongo.Collection {
	return r.DB.Collection(staffCollection)
}

func (r *MongoReportRepository) Create(ctx context.Context, report *model.Report) error {
	if report.ID == "" {
		report.ID = newObjectID()
	}
	_, err := r.col().InsertOne(ctx, report)
	return err
}

func (r *MongoReportRepository) Get(ctx context.Context, id string) (*model.Report, error) {
	var report model.Report
	if err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&report); err != nil {
		return nil, mongoErr(err)
	}
	return &report, nil
}

func reportQuery(f ReportFilter) bson.M {
	query := bson.M{}
	if f.Email != "" {
		query["email"] = f.Email
	}
	switch {
	case f.ReportStatus != "" && f.ExcludeStatus != "":
		query["reportStatus"] = bson.M{"$eq": f.ReportStatus, "$ne": f.ExcludeStatus}
	case f.ReportStatus != "":
		query["reportStatus"] = f.ReportStatus
	case f.ExcludeStatus != "":
		query["reportStatus"] = bson.M{"$ne": f.ExcludeStatus}
	}
	if f.Category != "" {
		query["category"] = f.Category
	}
	if f.Priority != "" {
		query["priority"] = f.Priority
	}
	if f.StaffID != "" {
		query["staffId"] = f.StaffID
	}
	if f.StaffEmail != "" {
		query["staffEmail"] = f.StaffEmail
	}
	if f.Search != "" {
		re := containsRegex(f.Search)
		query["$or"] = bson.A{
			bson.M{"issue": re},
			bson.M{"category": re},
			bson.M{"location": re},
		}
	}
	return query
}

func (r *MongoReportRepository) List(ctx context.Context, f ReportFilter) ([]model.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	cursor, err := r.col().Find(ctx, reportQuery(f), opts)
	if err != nil {
		return nil, err
	}
	reports := []model.Report{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *MongoReportRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoReportRepository) setWorkStatus(ctx context.Context, staffID string, ws model.WorkStatus) error {
	return retry.Do(ctx, secondWriteAttempts, secondWriteBackoff, func(ctx context.Context) error {
		_, err := r.staff().UpdateOne(ctx, bson.M{"_id": staffID}, bson.M{"$set": bson.M{"workStatus": ws}})
		return err
	})
}

func (r *MongoReportRepository) AssignStaff(ctx context.Context, reportID string, staff model.StaffRef) error {
	report, err := r.Get(ctx, reportID)
	if err != nil {
		return err
	}
	if err := r.staff().FindOne(ctx, bson.M{"_id": staff.ID}).Err(); err != nil {
		return mongoErr(err)
	}

	_, err = r.col().UpdateOne(ctx, bson.M{"_id": reportID}, bson.M{"$set": bson.M{
		"reportStatus": model.ReportInProgress,
		"staffId":      staff.ID,
		"staffName":    staff.Name,
		"staffEmail":   staff.Email,
	}})
	if err != nil {
		return err
	}

	if report.StaffID != nil && *report.StaffID != "" && *report.StaffID != staff.ID {
		if err := r.releaseIfIdle(ctx, *report.StaffID, reportID); err != nil {
			return err
		}
	}
	return r.setWorkStatus(ctx, staff.ID, model.WorkWorking)
}

func (r *MongoReportRepository) UpdateStatus(ctx context.Context, reportID string, status model.ReportStatus, releaseStaffID string) error {
	set := bson.M{"reportStatus": status}
	if !status.HoldsStaff() {
		set["staffId"] = nil
		set["staffName"] = nil
		set["staffEmail"] = nil
	}
	res, err := r.col().UpdateOne(ctx, bson.M{"_id": reportID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	if releaseStaffID == "" {
		return nil
	}
	return r.releaseIfIdle(ctx, releaseStaffID, reportID)
}

// releaseIfIdle sets staffID available unless an In-Progress report other
// than reportID still names it.
func (r *MongoReportRepository) releaseIfIdle(ctx context.Context, staffID, reportID string) error {
	busy, err := r.col().CountDocuments(ctx, bson.M{
		"_id":          bson.M{"$ne": reportID},
		"staffId":      staffID,
		"reportStatus": model.ReportInProgress,
	})
	if err != nil {
		return err
	}
	if busy > 0 {
		return nil
	}
	return r.setWorkStatus(ctx, staffID, model.WorkAvailable)
}

func (r *MongoReportRepository) MarkPaid(ctx context.Context, reportID, trackingID string) error {
	// one pipeline update so the status advance and the paid flag land together
	upgrade := mongo.Pipeline{{{Key: "$set", Value: bson.D{
		{Key: "paymentStatus", Value: model.PaymentPaid},
		{Key: "priority", Value: model.PriorityHigh},
		{Key: "trackingId", Value: trackingID},
		{Key: "reportStatus", Value: bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$eq", Value: bson.A{"$reportStatus", model.ReportSubmitted}}},
			model.ReportPending,
			"$reportStatus",
		}}}},
	}}}}
	res, err := r.col().UpdateOne(ctx,
		bson.M{"_id": reportID, "paymentStatus": bson.M{"$ne": model.PaymentPaid}},
		upgrade,
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	n, err := r.col().CountDocuments(ctx, bson.M{"_id": reportID})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
