package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classpilot/analytics-service/internal/services"
	"github.com/classpilot/analytics-service/internal/utils"
)

// stubAnalyticsService returns canned results so handler behavior can be
// tested without a repository.
type stubAnalyticsService struct {
	overview *services.ClassOverviewResponse
	err      error
}

func (s *stubAnalyticsService) GetQuestionBreakdown(ctx context.Context, teacherID string, assignmentID uint) (*services.QuestionBreakdownResponse, error) {
	return nil, s.err
}

func (s *stubAnalyticsService) GetClassOverview(ctx context.Context, teacherID string, classID uint) (*services.ClassOverviewResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.overview, nil
}

func (s *stubAnalyticsService) GetAssignmentComparison(ctx context.Context, teacherID string, classID uint) (*services.AssignmentComparisonResponse, error) {
	return nil, s.err
}

func performOverviewRequest(t *testing.T, service services.AnalyticsService, authenticated bool) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/classes/1/analytics", nil)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	if authenticated {
		c.Set("user_id", "t1")
	}

	handler := NewAnalyticsHandler(service, utils.NewDefaultLogger())
	handler.GetClassOverview(c)

	return recorder
}

func TestGetClassOverview_ConcealedErrorsAreIndistinguishable(t *testing.T) {
	notFound := performOverviewRequest(t, &stubAnalyticsService{err: services.ErrClassNotFound}, true)
	foreign := performOverviewRequest(t, &stubAnalyticsService{err: services.ErrClassAccessDenied}, true)

	assert.Equal(t, http.StatusOK, notFound.Code)
	assert.Equal(t, http.StatusOK, foreign.Code)

	// A probing client must not be able to tell a missing class from
	// somebody else's class
	assert.Equal(t, notFound.Body.String(), foreign.Body.String())
	assert.Equal(t, "null", notFound.Body.String())
}

func TestGetClassOverview_Success(t *testing.T) {
	overview := &services.ClassOverviewResponse{
		ClassID:   1,
		ClassName: "Math 6A",
		HasData:   true,
	}

	recorder := performOverviewRequest(t, &stubAnalyticsService{overview: overview}, true)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Math 6A")
}

func TestGetClassOverview_RequiresAuthentication(t *testing.T) {
	recorder := performOverviewRequest(t, &stubAnalyticsService{}, false)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestGetClassOverview_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/classes/abc/analytics", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	c.Set("user_id", "t1")

	handler := NewAnalyticsHandler(&stubAnalyticsService{}, utils.NewDefaultLogger())
	handler.GetClassOverview(c)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetClassOverview_InternalErrorIsNotConcealed(t *testing.T) {
	recorder := performOverviewRequest(t, &stubAnalyticsService{err: services.ErrInternalError}, true)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}
