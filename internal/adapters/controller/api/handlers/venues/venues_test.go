package venues

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Badsnus/events-backend/internal/domain/common/errorz"
	"github.com/Badsnus/events-backend/internal/domain/entity"
	"github.com/Badsnus/events-backend/pkg/logger/types"
)

type fakeVenues struct {
	venues    map[string]*entity.Venue
	protected map[string]bool
}

func (f *fakeVenues) Create(_ context.Context, venue *entity.Venue) (*entity.Venue, error) {
	venue.ID = "v-new"
	f.venues[venue.ID] = venue
	return venue, nil
}

func (f *fakeVenues) Get(_ context.Context, id string) (*entity.Venue, error) {
	venue, ok := f.venues[id]
	if !ok {
		return nil, errorz.ErrNotFound
	}
	copied := *venue
	return &copied, nil
}

func (f *fakeVenues) GetAll(context.Context) ([]entity.Venue, error) {
	var out []entity.Venue
	for _, venue := range f.venues {
		out = append(out, *venue)
	}
	return out, nil
}

func (f *fakeVenues) Update(_ context.Context, venue *entity.Venue) (*entity.Venue, error) {
	f.venues[venue.ID] = venue
	return venue, nil
}

func (f *fakeVenues) Delete(_ context.Context, id string) error {
	if f.protected[id] {
		return errorz.ErrVenueProtected
	}
	delete(f.venues, id)
	return nil
}

func newTestRouter(venues *fakeVenues) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := Handler{
		logger:       &types.Logger{SugaredLogger: zap.NewNop().Sugar()},
		venueService: venues,
	}
	router := gin.New()
	h.Setup(router.Group("/api"))
	return router
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestVenues(t *testing.T) {
	venues := &fakeVenues{
		venues:    map[string]*entity.Venue{"v1": {ID: "v1", Name: "Main hall", Latitude: 55.75, Longitude: 37.61}},
		protected: map[string]bool{"v1": true},
	}
	router := newTestRouter(venues)

	w := serve(router, http.MethodGet, "/api/venues/v1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"v1","name":"Main hall","location":{"latitude":55.75,"longitude":37.61}}`, w.Body.String())

	w = serve(router, http.MethodPost, "/api/venues", `{"name":"Park","location":{"latitude":1.5,"longitude":2.5}}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 2.5, venues.venues["v-new"].Longitude)

	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodPost, "/api/venues", `{"name":"No location"}`).Code)

	w = serve(router, http.MethodPut, "/api/venues/v-new", `{"name":"Park 2","location":{"latitude":1.5,"longitude":2.5}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Park 2", venues.venues["v-new"].Name)

	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/venues/missing", "").Code)
}

func TestDelete_ProtectedVenue(t *testing.T) {
	venues := &fakeVenues{
		venues: map[string]*entity.Venue{
			"used": {ID: "used", Name: "Used"},
			"free": {ID: "free", Name: "Free"},
		},
		protected: map[string]bool{"used": true},
	}
	router := newTestRouter(venues)

	w := serve(router, http.MethodDelete, "/api/venues/used", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "venue is referenced by events")

	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodDelete, "/api/venues/free", "").Code)
	assert.NotContains(t, venues.venues, "free")
}
