// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labongofred/E-voting-system-backend/models"
	"github.com/labongofred/E-voting-system-backend/router"
	"github.com/labongofred/E-voting-system-backend/testutil"
)

// TestVotingFlow walks one voter through the whole election: confirmed
// passcode, ballot token, cast, and the resulting admin tally.
func TestVotingFlow(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	cfg := testutil.GetTestConfig(t)
	mux := router.NewRouter(conn, cfg)

	positionID := testutil.CreateTestPosition(t, conn, "President", 1)
	alice := testutil.CreateTestCandidate(t, conn, positionID, "Alice", models.CandidateApproved)
	testutil.CreateTestCandidate(t, conn, positionID, "Bob", models.CandidateApproved)

	// The passcode is seeded directly; delivery is out of band in
	// production and the API never returns the plaintext.
	voterID := testutil.CreateTestVoter(t, conn, "CS/2021/100", models.VoterEligible)
	verificationID := testutil.CreateTestVerification(t, conn, voterID, "246810", time.Now())

	// Exchange the passcode for a ballot token.
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/api/verify/confirm",
		models.ConfirmOTPRequest{VerificationID: verificationID, OTP: "246810"}, nil))
	testutil.AssertStatus(t, w, 200)

	var confirmed models.ConfirmOTPResponse
	testutil.AssertJSON(t, w, &confirmed)
	if confirmed.BallotToken == "" {
		t.Fatal("expected a ballot token")
	}

	authHeader := map[string]string{"Authorization": "Bearer " + confirmed.BallotToken}

	// Cast the ballot.
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/api/voting/cast",
		[]models.VoteSelection{{PositionID: positionID, CandidateID: alice}}, authHeader))
	testutil.AssertStatus(t, w, 201)

	// The spent token cannot cast again.
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/api/voting/cast",
		[]models.VoteSelection{{PositionID: positionID, CandidateID: alice}}, authHeader))
	testutil.AssertStatus(t, w, 403)
	testutil.AssertErrorCode(t, w, models.CodeAlreadyCast)

	// The admin tally reflects the single ballot.
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/api/results/tally", nil, testutil.AdminHeaders("EC-CHAIR-01")))
	testutil.AssertStatus(t, w, 200)

	var tally models.TallyResponse
	testutil.AssertJSON(t, w, &tally)
	if len(tally.Results) != 1 {
		t.Fatalf("positions = %d, want 1", len(tally.Results))
	}
	pos := tally.Results[0]
	if pos.Candidates[0].ID != alice || pos.Candidates[0].VoteCount != 1 || pos.Candidates[0].Status != models.ResultWinner {
		t.Errorf("unexpected leader: %+v", pos.Candidates[0])
	}
	if tally.Meta.TotalVotesCast != 1 {
		t.Errorf("total votes cast = %d, want 1", tally.Meta.TotalVotesCast)
	}
	if tally.Meta.TurnoutPercentage != "100.00" {
		t.Errorf("turnout = %q, want 100.00", tally.Meta.TurnoutPercentage)
	}
}
