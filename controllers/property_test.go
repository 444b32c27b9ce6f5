package controllers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/hostel_pg_finder/backend/models"
	"github.com/dcode-github/hostel_pg_finder/backend/repository"
)

func validPropertyInput() models.PropertyInput {
	return models.PropertyInput{
		Name:         "Sunrise PG",
		Description:  "Near the metro",
		Address:      models.Address{Street: "12 MG Road", City: "Pune", State: "MH", ZipCode: "411001"},
		PropertyType: "PG",
		Price:        8000,
		Deposit:      16000,
		Amenities:    models.Amenities{WiFi: true, Food: true},
		Gender:       "Female",
		ContactInfo:  models.PropertyContact{Name: "Ravi", Phone: "9876543210", Email: "ravi@example.com"},
	}
}

func TestGetPropertiesParsesFiltersAndCaches(t *testing.T) {
	props := new(mockProperties)
	lc := newMemCache()
	listed := models.NewProperty(primitive.NewObjectID(), validPropertyInput(), time.Now().UTC())

	wantFilter := models.PropertyFilter{Keyword: "pune", PropertyType: "PG", MinPrice: ptr(5000.0), WiFi: true}
	props.On("List", mock.Anything, wantFilter, 2).
		Return(models.Page[models.Property]{Items: []models.Property{listed}, Total: 11, Page: 2}, nil).Once()

	h := GetProperties(props, lc)
	target := "/api/properties?keyword=pune&propertyType=PG&minPrice=5000&wifi=true&ac=yes&pageNumber=2"

	first := do(t, h, http.MethodGet, "/api/properties", target, nil, nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	var resp PropertyListResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 2, resp.Pages)
	assert.Equal(t, int64(11), resp.Total)
	require.Len(t, resp.Properties, 1)
	assert.Equal(t, "Sunrise PG", resp.Properties[0].Name)

	second := do(t, h, http.MethodGet, "/api/properties", target, nil, nil)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	props.AssertNumberOfCalls(t, "List", 1)
}

func TestGetPropertiesEmptyPage(t *testing.T) {
	props := new(mockProperties)
	props.On("List", mock.Anything, models.PropertyFilter{}, 1).
		Return(models.Page[models.Property]{Items: []models.Property{}, Total: 0, Page: 1}, nil)

	rec := do(t, GetProperties(props, newMemCache()), http.MethodGet, "/api/properties", "/api/properties?pageNumber=abc", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"properties":[],"page":1,"pages":0,"total":0}`, rec.Body.String())
}

func TestGetPropertyByIDResolvesOwner(t *testing.T) {
	props := new(mockProperties)
	users := new(mockUsers)
	o := owner()
	p := models.NewProperty(o.ID, validPropertyInput(), time.Now().UTC())

	props.On("GetByID", mock.Anything, p.ID.Hex()).Return(p, nil)
	users.On("GetByID", mock.Anything, o.ID).Return(o, nil)

	rec := do(t, GetPropertyByID(props, users), http.MethodGet, "/api/properties/{id}", "/api/properties/"+p.ID.Hex(), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Name  string         `json:"name"`
		Owner models.UserRef `json:"owner"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Sunrise PG", body.Name)
	assert.Equal(t, o.ID, body.Owner.ID)
	assert.Equal(t, "Ravi", body.Owner.Name)
	assert.Equal(t, "ravi@example.com", body.Owner.Email)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestGetPropertyByIDNotFound(t *testing.T) {
	props := new(mockProperties)
	props.On("GetByID", mock.Anything, "not-an-id").Return(models.Property{}, repository.ErrNotFound)

	rec := do(t, GetPropertyByID(props, new(mockUsers)), http.MethodGet, "/api/properties/{id}", "/api/properties/not-an-id", nil, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Property not found", decodeMessage(t, rec))
}

func TestCreateProperty(t *testing.T) {
	props := new(mockProperties)
	lc := newMemCache()
	o := owner()

	props.On("Create", mock.Anything, mock.MatchedBy(func(p models.Property) bool {
		return p.Owner == o.ID && p.Availability && p.NumReviews == 0 && p.Rating == 0 &&
			len(p.Reviews) == 0 && p.Images != nil && p.Name == "Sunrise PG"
	})).Return(nil)

	rec := do(t, CreateProperty(props, lc), http.MethodPost, "/api/properties", "/api/properties", validPropertyInput(), &o)

	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Property
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, o.ID, created.Owner)
	assert.True(t, created.Availability)
	assert.Equal(t, []string{propertyCachePrefix}, lc.invalidated)
	props.AssertExpectations(t)
}

func TestCreatePropertyValidation(t *testing.T) {
	o := owner()

	tests := []struct {
		name    string
		mutate  func(in *models.PropertyInput)
		message string
	}{
		{"missing city", func(in *models.PropertyInput) { in.Address.City = "" }, "address.city is required"},
		{"bad type", func(in *models.PropertyInput) { in.PropertyType = "Villa" }, "propertyType must be one of"},
		{"negative price", func(in *models.PropertyInput) { in.Price = -1 }, "price"},
		{"missing contact phone", func(in *models.PropertyInput) { in.ContactInfo.Phone = "" }, "contactInfo.phone is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props := new(mockProperties)
			in := validPropertyInput()
			tt.mutate(&in)

			rec := do(t, CreateProperty(props, newMemCache()), http.MethodPost, "/api/properties", "/api/properties", in, &o)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeMessage(t, rec), tt.message)
			props.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreatePropertyMalformedBody(t *testing.T) {
	o := owner()
	rec := do(t, CreateProperty(new(mockProperties), newMemCache()), http.MethodPost, "/api/properties", "/api/properties", "{not json", &o)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decodeMessage(t, rec))
}

func TestCreatePropertyRequiresCaller(t *testing.T) {
	rec := do(t, CreateProperty(new(mockProperties), newMemCache()), http.MethodPost, "/api/properties", "/api/properties", validPropertyInput(), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdatePropertyPassesPresentFieldsOnly(t *testing.T) {
	props := new(mockProperties)
	lc := newMemCache()
	o := owner()
	id := primitive.NewObjectID().Hex()
	updated := models.NewProperty(o.ID, validPropertyInput(), time.Now().UTC())
	updated.Price = 0

	props.On("Update", mock.Anything, id, o.ID, mock.MatchedBy(func(u models.PropertyUpdate) bool {
		return u.Price != nil && *u.Price == 0 &&
			u.Availability != nil && !*u.Availability &&
			u.Name == nil && u.Address == nil && u.Images == nil
	})).Return(updated, nil)

	rec := do(t, UpdateProperty(props, lc), http.MethodPut, "/api/properties/{id}", "/api/properties/"+id,
		`{"price":0,"availability":false}`, &o)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{propertyCachePrefix}, lc.invalidated)
	props.AssertExpectations(t)
}

func TestUpdatePropertyErrors(t *testing.T) {
	o := owner()
	id := primitive.NewObjectID().Hex()

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"foreign listing", repository.ErrNotOwner, http.StatusForbidden, "You can only update your own listings"},
		{"missing listing", repository.ErrNotFound, http.StatusNotFound, "Property not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props := new(mockProperties)
			lc := newMemCache()
			props.On("Update", mock.Anything, id, o.ID, mock.Anything).Return(models.Property{}, tt.err)

			rec := do(t, UpdateProperty(props, lc), http.MethodPut, "/api/properties/{id}", "/api/properties/"+id, `{"name":"x"}`, &o)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, decodeMessage(t, rec))
			assert.Empty(t, lc.invalidated)
		})
	}
}

func TestUpdatePropertyRejectsInvalidEnum(t *testing.T) {
	props := new(mockProperties)
	o := owner()

	rec := do(t, UpdateProperty(props, newMemCache()), http.MethodPut, "/api/properties/{id}", "/api/properties/abc", `{"gender":"Any"}`, &o)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	props.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteProperty(t *testing.T) {
	o := owner()
	id := primitive.NewObjectID().Hex()

	t.Run("owner", func(t *testing.T) {
		props := new(mockProperties)
		lc := newMemCache()
		props.On("Delete", mock.Anything, id, o.ID).Return(nil)

		rec := do(t, DeleteProperty(props, lc), http.MethodDelete, "/api/properties/{id}", "/api/properties/"+id, nil, &o)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Property removed", decodeMessage(t, rec))
		assert.Equal(t, []string{propertyCachePrefix}, lc.invalidated)
	})

	t.Run("someone else", func(t *testing.T) {
		props := new(mockProperties)
		props.On("Delete", mock.Anything, id, o.ID).Return(repository.ErrNotOwner)

		rec := do(t, DeleteProperty(props, newMemCache()), http.MethodDelete, "/api/properties/{id}", "/api/properties/"+id, nil, &o)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "You can only delete your own listings", decodeMessage(t, rec))
	})
}

func TestCreatePropertyReview(t *testing.T) {
	reviewer := seeker()
	id := primitive.NewObjectID().Hex()

	t.Run("added", func(t *testing.T) {
		props := new(mockProperties)
		lc := newMemCache()
		props.On("AddReview", mock.Anything, id, mock.MatchedBy(func(r models.Review) bool {
			return r.User == reviewer.ID && r.Name == "Meera" && r.Rating == 4 && r.Comment == "Clean rooms"
		})).Return(nil)

		rec := do(t, CreatePropertyReview(props, lc), http.MethodPost, "/api/properties/{id}/reviews",
			"/api/properties/"+id+"/reviews", models.ReviewInput{Rating: 4, Comment: "Clean rooms"}, &reviewer)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "Review added", decodeMessage(t, rec))
		assert.Equal(t, []string{propertyCachePrefix}, lc.invalidated)
	})

	t.Run("already reviewed", func(t *testing.T) {
		props := new(mockProperties)
		props.On("AddReview", mock.Anything, id, mock.Anything).Return(repository.ErrAlreadyReviewed)

		rec := do(t, CreatePropertyReview(props, newMemCache()), http.MethodPost, "/api/properties/{id}/reviews",
			"/api/properties/"+id+"/reviews", models.ReviewInput{Rating: 5, Comment: "Again"}, &reviewer)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Property already reviewed", decodeMessage(t, rec))
	})

	t.Run("missing property", func(t *testing.T) {
		props := new(mockProperties)
		props.On("AddReview", mock.Anything, id, mock.Anything).Return(repository.ErrNotFound)

		rec := do(t, CreatePropertyReview(props, newMemCache()), http.MethodPost, "/api/properties/{id}/reviews",
			"/api/properties/"+id+"/reviews", models.ReviewInput{Rating: 3, Comment: "ok"}, &reviewer)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Property not found", decodeMessage(t, rec))
	})

	t.Run("rating posted as string", func(t *testing.T) {
		props := new(mockProperties)
		props.On("AddReview", mock.Anything, id, mock.MatchedBy(func(r models.Review) bool {
			return r.Rating == 4 && r.Comment == "ok"
		})).Return(nil)

		rec := do(t, CreatePropertyReview(props, newMemCache()), http.MethodPost, "/api/properties/{id}/reviews",
			"/api/properties/"+id+"/reviews", `{"rating":"4","comment":"ok"}`, &reviewer)

		assert.Equal(t, http.StatusCreated, rec.Code)
		props.AssertExpectations(t)
	})

	t.Run("rating out of range", func(t *testing.T) {
		props := new(mockProperties)

		rec := do(t, CreatePropertyReview(props, newMemCache()), http.MethodPost, "/api/properties/{id}/reviews",
			"/api/properties/"+id+"/reviews", `{"rating":6,"comment":"great"}`, &reviewer)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		props.AssertNotCalled(t, "AddReview", mock.Anything, mock.Anything, mock.Anything)
	})
}
