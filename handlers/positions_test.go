// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labongofred/E-voting-system-backend/handlers"
	"github.com/labongofred/E-voting-system-backend/models"
	"github.com/labongofred/E-voting-system-backend/testutil"
)

func TestCreatePosition(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	handler := handlers.NewPositionHandler(conn, testutil.GetTestConfig(t))

	t.Run("creates a position", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.CreatePosition(w, testutil.MakeRequest("POST", "/api/position",
			models.CreatePositionRequest{Name: "President", Seats: 1}, nil))

		testutil.AssertStatus(t, w, http.StatusCreated)

		var pos models.Position
		testutil.AssertJSON(t, w, &pos)
		if pos.ID == 0 || pos.Name != "President" || pos.Seats != 1 {
			t.Errorf("unexpected position: %+v", pos)
		}
	})

	t.Run("duplicate name", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.CreatePosition(w, testutil.MakeRequest("POST", "/api/position",
			models.CreatePositionRequest{Name: "President", Seats: 1}, nil))

		testutil.AssertStatus(t, w, http.StatusConflict)
		testutil.AssertErrorCode(t, w, models.CodeConflict)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name string
			req  models.CreatePositionRequest
		}{
			{"empty name", models.CreatePositionRequest{Name: "", Seats: 1}},
			{"whitespace name", models.CreatePositionRequest{Name: "   ", Seats: 1}},
			{"zero seats", models.CreatePositionRequest{Name: "Senate", Seats: 0}},
			{"negative seats", models.CreatePositionRequest{Name: "Senate", Seats: -2}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := httptest.NewRecorder()
				handler.CreatePosition(w, testutil.MakeRequest("POST", "/api/position", tt.req, nil))

				testutil.AssertStatus(t, w, http.StatusBadRequest)
				testutil.AssertErrorCode(t, w, models.CodeValidation)
			})
		}
	})
}

func TestListPositions(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	handler := handlers.NewPositionHandler(conn, testutil.GetTestConfig(t))

	t.Run("empty list is an array", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ListPositions(w, testutil.MakeRequest("GET", "/api/position", nil, nil))

		testutil.AssertStatus(t, w, http.StatusOK)
		if body := w.Body.String(); body != "[]\n" && body != "[]" {
			t.Errorf("empty list body = %q, want []", body)
		}
	})

	t.Run("ordered by id", func(t *testing.T) {
		testutil.CreateTestPosition(t, conn, "President", 1)
		testutil.CreateTestPosition(t, conn, "Senate", 3)

		w := httptest.NewRecorder()
		handler.ListPositions(w, testutil.MakeRequest("GET", "/api/position", nil, nil))

		testutil.AssertStatus(t, w, http.StatusOK)

		var positions []models.Position
		testutil.AssertJSON(t, w, &positions)
		if len(positions) != 2 {
			t.Fatalf("positions = %d, want 2", len(positions))
		}
		if positions[0].Name != "President" || positions[1].Name != "Senate" {
			t.Errorf("unexpected order: %q, %q", positions[0].Name, positions[1].Name)
		}
	})
}

func TestUpdatePosition(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	handler := handlers.NewPositionHandler(conn, testutil.GetTestConfig(t))
	positionID := testutil.CreateTestPosition(t, conn, "Senate", 1)

	patch := func(id string, req models.UpdatePositionRequest) *httptest.ResponseRecorder {
		r := testutil.MakeRequest("PATCH", "/api/position/"+id, req, nil)
		r.SetPathValue("id", id)
		w := httptest.NewRecorder()
		handler.UpdatePosition(w, r)
		return w
	}

	t.Run("updates seats only", func(t *testing.T) {
		seats := 3
		w := patch(strconv.FormatInt(positionID, 10), models.UpdatePositionRequest{Seats: &seats})

		testutil.AssertStatus(t, w, http.StatusOK)

		var pos models.Position
		testutil.AssertJSON(t, w, &pos)
		if pos.Seats != 3 || pos.Name != "Senate" {
			t.Errorf("unexpected position after patch: %+v", pos)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		seats := 2
		w := patch("424242", models.UpdatePositionRequest{Seats: &seats})

		testutil.AssertStatus(t, w, http.StatusNotFound)
		testutil.AssertErrorCode(t, w, models.CodeNotFound)
	})

	t.Run("empty patch", func(t *testing.T) {
		w := patch(strconv.FormatInt(positionID, 10), models.UpdatePositionRequest{})

		testutil.AssertStatus(t, w, http.StatusBadRequest)
		testutil.AssertErrorCode(t, w, models.CodeValidation)
	})
}

func TestDeletePosition(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	handler := handlers.NewPositionHandler(conn, testutil.GetTestConfig(t))

	del := func(id string) *httptest.ResponseRecorder {
		r := testutil.MakeRequest("DELETE", "/api/position/"+id, nil, nil)
		r.SetPathValue("id", id)
		w := httptest.NewRecorder()
		handler.DeletePosition(w, r)
		return w
	}

	t.Run("deletes an unused position", func(t *testing.T) {
		positionID := testutil.CreateTestPosition(t, conn, "Treasurer", 1)

		w := del(strconv.FormatInt(positionID, 10))
		testutil.AssertStatus(t, w, http.StatusNoContent)
	})

	t.Run("refuses once votes exist", func(t *testing.T) {
		positionID := testutil.CreateTestPosition(t, conn, "President", 1)
		candidateID := testutil.CreateTestCandidate(t, conn, positionID, "Alice", models.CandidateApproved)
		voteFor(t, conn, "REG-5001", positionID, candidateID)

		w := del(strconv.FormatInt(positionID, 10))
		testutil.AssertStatus(t, w, http.StatusConflict)
		testutil.AssertErrorCode(t, w, models.CodeConflict)
	})

	t.Run("unknown id", func(t *testing.T) {
		w := del("424242")
		testutil.AssertStatus(t, w, http.StatusNotFound)
		testutil.AssertErrorCode(t, w, models.CodeNotFound)
	})
}
