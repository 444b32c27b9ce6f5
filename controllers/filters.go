package controllers

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/dcode-github/hostel_pg_finder/backend/models"
)

// pageNumber reads the 1-based pageNumber parameter, defaulting to 1.
func pageNumber(q url.Values) int {
	page, err := strconv.Atoi(q.Get("pageNumber"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// bound parses an optional numeric bound; unparseable values are ignored.
func bound(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// flag is set only by the literal string "true".
func flag(q url.Values, key string) bool {
	return q.Get(key) == "true"
}

func propertyFilter(q url.Values) models.PropertyFilter {
	return models.PropertyFilter{
		Keyword:      strings.TrimSpace(q.Get("keyword")),
		PropertyType: q.Get("propertyType"),
		MinPrice:     bound(q.Get("minPrice")),
		MaxPrice:     bound(q.Get("maxPrice")),
		Gender:       q.Get("gender"),
		WiFi:         flag(q, "wifi"),
		AC:           flag(q, "ac"),
		Food:         flag(q, "food"),
		Parking:      flag(q, "parking"),
	}
}

func roommateFilter(q url.Values) models.RoommateFilter {
	return models.RoommateFilter{
		Location:   strings.TrimSpace(q.Get("location")),
		Gender:     q.Get("gender"),
		MinBudget:  bound(q.Get("minBudget")),
		MaxBudget:  bound(q.Get("maxBudget")),
		Occupation: q.Get("occupation"),
		Smoking:    flag(q, "smoking"),
		Veg:        flag(q, "veg"),
	}
}
