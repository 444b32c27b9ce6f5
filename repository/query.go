package repository

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dcode-github/hostel_pg_finder/backend/models"
)

// containsFold matches s as a literal, case-insensitive substring.
func containsFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func numericRange(min, max *float64) bson.M {
	r := bson.M{}
	if min != nil {
		r["$gte"] = *min
	}
	if max != nil {
		r["$lte"] = *max
	}
	return r
}

func propertyQuery(f models.PropertyFilter) bson.M {
	query := bson.M{}

	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		query["$or"] = bson.A{
			bson.M{"name": containsFold(kw)},
			bson.M{"address.city": containsFold(kw)},
		}
	}
	if f.PropertyType != "" {
		query["propertyType"] = f.PropertyType
	}
	if r := numericRange(f.MinPrice, f.MaxPrice); len(r) > 0 {
		query["price"] = r
	}
	if f.Gender != "" {
		query["gender"] = f.Gender
	}

	amenities := map[string]bool{
		"amenities.wifi":    f.WiFi,
		"amenities.ac":      f.AC,
		"amenities.food":    f.Food,
		"amenities.parking": f.Parking,
	}
	for field, wanted := range amenities {
		if wanted {
			query[field] = true
		}
	}

	return query
}

func roommateQuery(f models.RoommateFilter) bson.M {
	query := bson.M{"isActive": true}

	if loc := strings.TrimSpace(f.Location); loc != "" {
		query["location"] = containsFold(loc)
	}
	if f.Gender != "" {
		query["gender"] = f.Gender
	}
	if r := numericRange(f.MinBudget, f.MaxBudget); len(r) > 0 {
		query["budget"] = r
	}
	if f.Occupation != "" {
		query["occupation"] = f.Occupation
	}
	if f.Smoking {
		query["preferences.smoking"] = true
	}
	if f.Veg {
		query["preferences.veg"] = true
	}

	return query
}

// pageOptions sorts newest first; _id breaks ties so that repeated reads
// return the same order.
func pageOptions(page int) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(models.Skip(page)).
		SetLimit(models.PageSize)
}

func propertySet(u models.PropertyUpdate, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Address != nil {
		set["address"] = *u.Address
	}
	if u.PropertyType != nil {
		set["propertyType"] = *u.PropertyType
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.Deposit != nil {
		set["deposit"] = *u.Deposit
	}
	if u.Amenities != nil {
		set["amenities"] = *u.Amenities
	}
	if u.Gender != nil {
		set["gender"] = *u.Gender
	}
	if u.ContactInfo != nil {
		set["contactInfo"] = *u.ContactInfo
	}
	if u.Availability != nil {
		set["availability"] = *u.Availability
	}
	if len(u.Images) > 0 {
		set["images"] = u.Images
	}
	return set
}

func roommateSet(u models.RoommateUpdate, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Age != nil {
		set["age"] = *u.Age
	}
	if u.Gender != nil {
		set["gender"] = *u.Gender
	}
	if u.Occupation != nil {
		set["occupation"] = *u.Occupation
	}
	if u.Budget != nil {
		set["budget"] = *u.Budget
	}
	if u.Location != nil {
		set["location"] = *u.Location
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.ProfileImage != nil {
		set["profileImage"] = *u.ProfileImage
	}
	if u.ContactInfo != nil {
		set["contactInfo"] = *u.ContactInfo
	}
	if u.Preferences != nil {
		set["preferences"] = *u.Preferences
	}
	if u.IsActive != nil {
		set["isActive"] = *u.IsActive
	}
	return set
}

// reviewFilter matches the property only while the reviewer has no review on it.
func reviewFilter(id, reviewer primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "reviews.user": bson.M{"$ne": reviewer}}
}

// reviewPipeline appends the review and recomputes numReviews and rating from
// the full review list in the same write.
func reviewPipeline(r models.Review) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "reviews", Value: bson.D{{Key: "$concatArrays", Value: bson.A{
				bson.D{{Key: "$ifNull", Value: bson.A{"$reviews", bson.A{}}}},
				bson.A{bson.D{{Key: "$literal", Value: r}}},
			}}}},
		}}},
		{{Key: "$set", Value: bson.D{
			{Key: "numReviews", Value: bson.D{{Key: "$size", Value: "$reviews"}}},
			{Key: "rating", Value: bson.D{{Key: "$avg", Value: "$reviews.rating"}}},
			{Key: "updatedAt", Value: r.CreatedAt},
		}}},
	}
}
