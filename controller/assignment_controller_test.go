package controller

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"telconova-dispatch/models"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AssignmentControllerTestSuite struct {
	routerSuite
	history models.HistoryState
}

func (suite *AssignmentControllerTestSuite) SetupTest() {
	suite.routerSuite.SetupTest()
	desc := "Assign order O-1001 to technician t1"
	suite.history = models.HistoryState{CanUndo: true, LastDesc: &desc, Size: 1}
	suite.svc.assignment.On("History").Return(suite.history).Maybe()
}

func command(kind models.CommandKind, orderID string, techID, prevID *string) *models.Command {
	return &models.Command{
		ID:                   "cmd-1",
		Kind:                 kind,
		OrderID:              orderID,
		TechnicianID:         techID,
		PreviousTechnicianID: prevID,
		NewWorkloadDelta:     1,
		ExecutedAt:           time.Now().UTC(),
	}
}

func (suite *AssignmentControllerTestSuite) TestAssignOrder() {
	cmd := command(models.CommandAssign, "O-1001", strPtr("t1"), nil)
	suite.svc.assignment.On("Assign", mock.Anything, "O-1001", "t1").Return(cmd, nil)

	w, resp := suite.request(http.MethodPost, "/orders/assign",
		models.AssignOrderRequest{OrderID: "O-1001", TechnicianID: "t1"})

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("Assignment updated successfully", resp.Message)
	data := dataMap(resp)
	suite.Equal("Assign order O-1001 to technician t1", data["description"])
	suite.Equal("assign", data["command"].(map[string]interface{})["kind"])
	history := data["history"].(map[string]interface{})
	suite.Equal(true, history["canUndo"])
	suite.Equal("Assign order O-1001 to technician t1", history["lastDescription"])
}

func (suite *AssignmentControllerTestSuite) TestReassignDescribesBothTechnicians() {
	cmd := command(models.CommandReassign, "O-1002", strPtr("t5"), strPtr("t2"))
	suite.svc.assignment.On("Assign", mock.Anything, "O-1002", "t5").Return(cmd, nil)

	w, resp := suite.request(http.MethodPost, "/orders/assign",
		models.AssignOrderRequest{OrderID: "O-1002", TechnicianID: "t5"})

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("Reassign order O-1002 from technician t2 to technician t5", dataMap(resp)["description"])
}

func (suite *AssignmentControllerTestSuite) TestAssignSameTechnicianIsNoop() {
	cmd := command(models.CommandNoop, "O-1002", strPtr("t2"), strPtr("t2"))
	suite.svc.assignment.On("Assign", mock.Anything, "O-1002", "t2").Return(cmd, nil)

	w, resp := suite.request(http.MethodPost, "/orders/assign",
		models.AssignOrderRequest{OrderID: "O-1002", TechnicianID: "t2"})

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("No change: order already in requested state", resp.Message)
}

func (suite *AssignmentControllerTestSuite) TestAssignRequiresBothIDs() {
	tests := []struct {
		name  string
		body  models.AssignOrderRequest
		field string
	}{
		{"missing order", models.AssignOrderRequest{TechnicianID: "t1"}, "orderId"},
		{"missing technician", models.AssignOrderRequest{OrderID: "O-1001"}, "technicianId"},
		{"missing both", models.AssignOrderRequest{}, "orderId"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w, resp := suite.request(http.MethodPost, "/orders/assign", tt.body)
			suite.Equal(http.StatusBadRequest, w.Code)
			suite.Equal(tt.field, resp.Error.Field)
		})
	}
	suite.svc.assignment.AssertNotCalled(suite.T(), "Assign", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AssignmentControllerTestSuite) TestAssignErrors() {
	tests := []struct {
		name   string
		err    error
		status int
		kind   models.ErrorKind
	}{
		{"capacity", models.NewCapacityExceeded("t3"), http.StatusConflict, models.KindCapacityExceeded},
		{"unknown order", models.NewNotFound("order", "O-1001"), http.StatusNotFound, models.KindNotFound},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, models.KindInternal},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.SetupTest()
			suite.svc.assignment.On("Assign", mock.Anything, "O-1001", "t3").Return(nil, tt.err)

			w, resp := suite.request(http.MethodPost, "/orders/assign",
				models.AssignOrderRequest{OrderID: "O-1001", TechnicianID: "t3"})

			suite.Equal(tt.status, w.Code)
			suite.Equal(string(tt.kind), resp.Error.Type)
			suite.Nil(resp.Data)
		})
	}
}

func (suite *AssignmentControllerTestSuite) TestInternalErrorDetailsHidden() {
	suite.svc.assignment.On("Assign", mock.Anything, "O-1001", "t1").Return(nil, errors.New("secret connection string"))

	_, resp := suite.request(http.MethodPost, "/orders/assign",
		models.AssignOrderRequest{OrderID: "O-1001", TechnicianID: "t1"})

	suite.Equal("internal server error", resp.Error.Details)
}

func (suite *AssignmentControllerTestSuite) TestAssignPersistenceFailureCarriesCommand() {
	cmd := command(models.CommandAssign, "O-1001", strPtr("t1"), nil)
	suite.svc.assignment.On("Assign", mock.Anything, "O-1001", "t1").
		Return(cmd, models.NewPersistenceFailure("orders", errors.New("quota exceeded")))

	w, resp := suite.request(http.MethodPost, "/orders/assign",
		models.AssignOrderRequest{OrderID: "O-1001", TechnicianID: "t1"})

	suite.Equal(http.StatusServiceUnavailable, w.Code)
	suite.Equal(string(models.KindPersistenceFailure), resp.Error.Type)
	data := dataMap(resp)
	suite.Equal("cmd-1", data["command"].(map[string]interface{})["id"])
	suite.NotNil(data["history"])
}

func (suite *AssignmentControllerTestSuite) TestUnassignOrder() {
	cmd := command(models.CommandUnassign, "O-1004", nil, strPtr("t4"))
	suite.svc.assignment.On("Unassign", mock.Anything, "O-1004").Return(cmd, nil)

	w, resp := suite.request(http.MethodPost, "/orders/O-1004/unassign", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("Unassign order O-1004 from technician t4", dataMap(resp)["description"])
}

func (suite *AssignmentControllerTestSuite) TestAutoAssignOrder() {
	cmd := command(models.CommandAssign, "O-1006", strPtr("t1"), nil)
	suite.svc.assignment.On("AutoAssign", mock.Anything, "O-1006").Return(cmd, nil)

	w, resp := suite.request(http.MethodPost, "/orders/O-1006/auto-assign", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("Assign order O-1006 to technician t1", dataMap(resp)["description"])
}

func (suite *AssignmentControllerTestSuite) TestAutoAssignOrderAlreadyAssigned() {
	suite.svc.assignment.On("AutoAssign", mock.Anything, "O-1002").
		Return(nil, models.NewValidationError("orderId", "order O-1002 is already assigned"))

	w, resp := suite.request(http.MethodPost, "/orders/O-1002/auto-assign", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("orderId", resp.Error.Field)
}

func (suite *AssignmentControllerTestSuite) TestAutoAssignAll() {
	report := models.AutoAssignReport{
		Success: 1,
		Failed:  1,
		Results: []models.AutoAssignResult{
			{OrderID: "O-1006", Success: true, TechnicianID: "t1"},
			{OrderID: "O-1001", Success: false, Reason: "no technician with capacity"},
		},
	}
	suite.svc.assignment.On("AutoAssignAll", mock.Anything).Return(report)

	w, resp := suite.request(http.MethodPost, "/orders/auto-assign", nil)

	suite.Equal(http.StatusOK, w.Code)
	data := dataMap(resp)
	suite.Equal(float64(1), data["success"])
	suite.Equal(float64(1), data["failed"])
	suite.Len(data["results"], 2)
}

func (suite *AssignmentControllerTestSuite) TestGetHistory() {
	entries := []models.Command{*command(models.CommandAssign, "O-1001", strPtr("t1"), nil)}
	suite.svc.assignment.On("HistoryEntries").Return(entries)

	w, resp := suite.request(http.MethodGet, "/history", nil)

	suite.Equal(http.StatusOK, w.Code)
	data := dataMap(resp)
	suite.Len(data["entries"], 1)
	suite.Equal(float64(1), data["state"].(map[string]interface{})["size"])
}

func (suite *AssignmentControllerTestSuite) TestUndoAndRedo() {
	suite.svc.assignment.On("Undo", mock.Anything).Return(true, nil)
	suite.svc.assignment.On("Redo", mock.Anything).Return(true, nil)

	w, resp := suite.request(http.MethodPost, "/history/undo", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(dataMap(resp), "history")

	w, _ = suite.request(http.MethodPost, "/history/redo", nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *AssignmentControllerTestSuite) TestUndoWithEmptyHistory() {
	suite.svc.assignment.On("Undo", mock.Anything).Return(false, nil)

	w, resp := suite.request(http.MethodPost, "/history/undo", nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("Nothing to undo", resp.Message)
	suite.Equal(string(models.KindConflict), resp.Error.Type)
}

func (suite *AssignmentControllerTestSuite) TestUndoOfDeletedTechnician() {
	suite.svc.assignment.On("Undo", mock.Anything).Return(false, models.NewNotFound("technician", "t4"))

	w, resp := suite.request(http.MethodPost, "/history/undo", nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Nil(resp.Data)
}

func (suite *AssignmentControllerTestSuite) TestRedoPersistenceFailureStillReportsHistory() {
	suite.svc.assignment.On("Redo", mock.Anything).Return(true, models.NewPersistenceFailure("orders", context.DeadlineExceeded))

	w, resp := suite.request(http.MethodPost, "/history/redo", nil)

	suite.Equal(http.StatusServiceUnavailable, w.Code)
	suite.Contains(dataMap(resp), "history")
}

func TestAssignmentControllerTestSuite(t *testing.T) {
	suite.Run(t, new(AssignmentControllerTestSuite))
}
