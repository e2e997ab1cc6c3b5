package api

import (
	"fmt"
	"net/http"
	"testing"

	"backend_customerpro/models"
	"backend_customerpro/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTourAssignsDenseOrder(t *testing.T) {
	router, db, _ := setupTestAPI(t)
	paul := testutils.CreateTestUser(t, db, "paul", "paul123", models.RoleField, false)

	stops := []map[string]string{
		{"customer_name": "Kunde A", "address": "Weg 1", "goal": "Beratung"},
		{"customer_name": "Kunde B", "address": "Weg 2"},
		{"customer_name": "Kunde C", "address": "Weg 3", "goal": "Abschluss"},
	}
	w := doRequest(router, "POST", "/api/tours", map[string]interface{}{"title": "Montag", "stops": stops}, &paul)
	require.Equal(t, http.StatusCreated, w.Code)

	tour := decodeObject(t, w)
	gotStops := tour["stops"].([]interface{})
	require.Len(t, gotStops, 3)
	for i, raw := range gotStops {
		stop := raw.(map[string]interface{})
		assert.Equal(t, float64(i+1), stop["order"])
	}
}

func TestCreateTourValidation(t *testing.T) {
	router, db, _ := setupTestAPI(t)
	paul := testutils.CreateTestUser(t, db, "paul", "paul123", models.RoleField, false)

	// Missing stops.
	w := doRequest(router, "POST", "/api/tours", map[string]interface{}{"title": "Leer"}, &paul)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing title.
	w = doRequest(router, "POST", "/api/tours", map[string]interface{}{
		"stops": []map[string]string{{"customer_name": "K", "address": "A"}},
	}, &paul)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListToursIsolationAndArchiveFilter(t *testing.T) {
	router, db, _ := setupTestAPI(t)
	paul := testutils.CreateTestUser(t, db, "paul", "paul123", models.RoleField, false)
	thomas := testutils.CreateTestUser(t, db, "thomas", "thomas123", models.RoleField, false)
	maria := testutils.CreateTestUser(t, db, "maria", "maria123", models.RoleOffice, false)

	require.NoError(t, db.Create(&models.Tour{Title: "Paul aktiv", CreatedBy: paul.ID}).Error)
	require.NoError(t, db.Create(&models.Tour{Title: "Paul archiviert", CreatedBy: paul.ID, Archived: true}).Error)
	require.NoError(t, db.Create(&models.Tour{Title: "Thomas aktiv", CreatedBy: thomas.ID}).Error)

	w := doRequest(router, "GET", "/api/tours", nil, &paul)
	assert.Len(t, decodeList(t, w), 1)

	w = doRequest(router, "GET", "/api/tours?archived=true", nil, &paul)
	assert.Len(t, decodeList(t, w), 1)

	w = doRequest(router, "GET", "/api/tours", nil, &maria)
	assert.Len(t, decodeList(t, w), 2)

	w = doRequest(router, "GET", "/api/tours", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 0)
}

func TestCompleteTourOneWay(t *testing.T) {
	router, db, _ := setupTestAPI(t)
	paul := testutils.CreateTestUser(t, db, "paul", "paul123", models.RoleField, false)
	tour := models.Tour{Title: "Montag", CreatedBy: paul.ID}
	require.NoError(t, db.Create(&tour).Error)

	w := doRequest(router, "POST", fmt.Sprintf("/api/tours/%d/complete", tour.ID), nil, &paul)
	require.Equal(t, http.StatusOK, w.Code)

	var archived models.Tour
	require.NoError(t, db.First(&archived, tour.ID).Error)
	assert.True(t, archived.Archived)
	require.NotNil(t, archived.CompletedAt)
	firstCompletion := *archived.CompletedAt

	// Re-completing is idempotent and keeps the original timestamp.
	w = doRequest(router, "POST", fmt.Sprintf("/api/tours/%d/complete", tour.ID), nil, &paul)
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.First(&archived, tour.ID).Error)
	assert.True(t, archived.Archived)
	require.NotNil(t, archived.CompletedAt)
	assert.Equal(t, firstCompletion.Unix(), archived.CompletedAt.Unix())
}

func TestCompleteTourForeignDenied(t *testing.T) {
	router, db, _ := setupTestAPI(t)
	paul := testutils.CreateTestUser(t, db, "paul", "paul123", models.RoleField, false)
	thomas := testutils.CreateTestUser(t, db, "thomas", "thomas123", models.RoleField, false)
	tour := models.Tour{Title: "Montag", CreatedBy: paul.ID}
	require.NoError(t, db.Create(&tour).Error)

	w := doRequest(router, "POST", fmt.Sprintf("/api/tours/%d/complete", tour.ID), nil, &thomas)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var unchanged models.Tour
	require.NoError(t, db.First(&unchanged, tour.ID).Error)
	assert.False(t, unchanged.Archived)
}

func TestDeleteTourCascadesStops(t *testing.T) {
	router, db, _ := setupTestAPI(t)
	paul := testutils.CreateTestUser(t, db, "paul", "paul123", models.RoleField, false)
	tour := models.Tour{Title: "Montag", CreatedBy: paul.ID}
	require.NoError(t, db.Create(&tour).Error)
	require.NoError(t, db.Create(&models.TourStop{TourID: tour.ID, CustomerName: "K", Address: "A", Order: 1}).Error)
	require.NoError(t, db.Create(&models.TourStop{TourID: tour.ID, CustomerName: "K2", Address: "B", Order: 2}).Error)

	w := doRequest(router, "DELETE", fmt.Sprintf("/api/tours/%d", tour.ID), nil, &paul)
	require.Equal(t, http.StatusOK, w.Code)

	var stops int64
	require.NoError(t, db.Model(&models.TourStop{}).Count(&stops).Error)
	assert.Zero(t, stops)
}

func TestTourPDFExport(t *testing.T) {
	router, db, _ := setupTestAPI(t)
	paul := testutils.CreateTestUser(t, db, "paul", "paul123", models.RoleField, false)
	thomas := testutils.CreateTestUser(t, db, "thomas", "thomas123", models.RoleField, false)
	tour := models.Tour{Title: "Montag", CreatedBy: paul.ID}
	require.NoError(t, db.Create(&tour).Error)
	require.NoError(t, db.Create(&models.TourStop{TourID: tour.ID, CustomerName: "K", Address: "A", Order: 1}).Error)

	w := doRequest(router, "GET", fmt.Sprintf("/api/tours/%d/pdf", tour.ID), nil, &paul)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, w.Body.Len() > 100)

	// Foreign tours stay invisible for the PDF too.
	w = doRequest(router, "GET", fmt.Sprintf("/api/tours/%d/pdf", tour.ID), nil, &thomas)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
