package cli

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/doc-forge-buddy/docforge/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func TestWriteScanResult(t *testing.T) {
	var buf bytes.Buffer
	err := writeScanResult(&buf, &model.ScanResult{
		NotificationsCreated: 2,
		Errors:               1,
		CleanedCount:         4,
		FinishedAt:           time.Date(2026, 4, 10, 9, 30, 0, 0, time.FixedZone("BRT", -3*3600)),
	})
	gt.NoError(t, err).Required()

	var out map[string]any
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &out)).Required()
	gt.Value(t, out["success"]).Equal(true)
	gt.Value(t, out["notificationsCreated"]).Equal(float64(2))
	gt.Value(t, out["errors"]).Equal(float64(1))
	gt.Value(t, out["cleanedCount"]).Equal(float64(4))
	gt.Value(t, out["timestamp"]).Equal("2026-04-10T12:30:00.000Z")
}

func TestIndexConfig(t *testing.T) {
	cfg := getIndexConfig()
	gt.Array(t, cfg.Collections).Length(1).Required()
	gt.Value(t, cfg.Collections[0].Name).Equal("notifications")
	gt.Array(t, cfg.Collections[0].Indexes).Length(3).Required()

	dedup := cfg.Collections[0].Indexes[1]
	gt.Array(t, dedup.Fields).Length(4).Required()
	gt.Value(t, dedup.Fields[1].Path).Equal("metadata.contract_id")
}
