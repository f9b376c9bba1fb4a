package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/darkenness/airnet/pkg/controls"
	"github.com/darkenness/airnet/pkg/model"
	"github.com/darkenness/airnet/pkg/topology"
	"github.com/darkenness/airnet/pkg/validation"
)

const testProjectYAML = `
name: Server Test
ambient:
  temperature: 293.15
  pressure: 101325
stories:
  - name: Ground
    level: 0
    floor_height: 3.0
    geometry:
      vertices:
        - {id: v1, x: 0, y: 0}
        - {id: v2, x: 5, y: 0}
        - {id: v3, x: 5, y: 2}
        - {id: v4, x: 0, y: 2}
      edges:
        - {id: e1, v1: v1, v2: v2, face_ids: [f1]}
        - {id: e2, v1: v2, v2: v3, face_ids: [f1]}
        - {id: e3, v1: v3, v2: v4, face_ids: [f1]}
        - {id: e4, v1: v4, v2: v1, face_ids: [f1]}
      faces:
        - {id: f1, vertex_ids: [v1, v2, v3, v4]}
    zones:
      - {face_id: f1, zone_id: 1, name: Living, temperature: 295}
    placements:
      - {edge_id: e1, type: door, configured: true}
controls:
  sensors:
    - {id: 1, name: CO2, type: concentration, target_id: 1, x: 10, y: 10}
  controllers:
    - {id: 1, name: PI, sensor_id: 1, actuator_id: 1, setpoint: 800, kp: 0.5, x: 50, y: 10}
  actuators:
    - {id: 1, name: Damper, type: damper, link_index: 0, x: 90, y: 10}
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, model.ProjectFileName), []byte(testProjectYAML), 0o644)
	require.NoError(t, err)

	s := New(dir, 0, zap.NewNop())
	require.NoError(t, s.reload())
	return s
}

func TestHandleModel(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handleModel(rec, httptest.NewRequest(http.MethodGet, "/api/model", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var p model.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Server Test", p.Name)
	assert.Len(t, p.Stories, 1)
	assert.Len(t, p.Controls.Sensors, 1)
}

func TestHandleValidation(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handleValidation(rec, httptest.NewRequest(http.MethodGet, "/api/validation", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var report validation.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.True(t, report.Valid)
}

func TestHandleTopology(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handleTopology(rec, httptest.NewRequest(http.MethodGet, "/api/topology", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	doc, err := topology.Parse(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Len(t, doc.Nodes, 2)
	assert.Len(t, doc.Links, 1)
	assert.Equal(t, 10000, doc.Links[0].ID)
}

func TestHandleControlGraph(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handleControlGraph(rec, httptest.NewRequest(http.MethodGet, "/api/controls/graph", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var g controls.Graph
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
	assert.Len(t, g.Nodes, 3)
	assert.Len(t, g.Edges, 2)
}

func TestHandleControlConnect_RejectsCycle(t *testing.T) {
	s := newTestServer(t)

	body := strings.NewReader(`{"from": "actuator-1", "to": "sensor-1"}`)
	rec := httptest.NewRecorder()
	s.handleControlConnect(rec, httptest.NewRequest(http.MethodPost, "/api/controls/connect", body))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "cycle")
}

func TestHandleControlConnect_BadBody(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handleControlConnect(rec, httptest.NewRequest(http.MethodPost, "/api/controls/connect", strings.NewReader("{")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReload_KeepsSynchronizer(t *testing.T) {
	s := newTestServer(t)
	first := s.sync
	require.NoError(t, s.reload())
	assert.Same(t, first, s.sync, "reload must reproject into the existing synchronizer")
}
