package log

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPackageLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))

	Infof("loaded %d contours", 3)
	Debugw("derived grid size", "columns", 130)
	Warnf("nothing in %s", "area")
	ForRun("abc").Infow("resolved heightmap", "nodata", 7)

	entries := logs.All()
	if len(entries) != 4 {
		t.Fatalf("got %d entries, expected 4", len(entries))
	}

	tests := []struct {
		level   zapcore.Level
		message string
	}{
		{zapcore.InfoLevel, "loaded 3 contours"},
		{zapcore.DebugLevel, "derived grid size"},
		{zapcore.WarnLevel, "nothing in area"},
		{zapcore.InfoLevel, "resolved heightmap"},
	}
	for i, tt := range tests {
		if entries[i].Level != tt.level || entries[i].Message != tt.message {
			t.Errorf("entry %d = %v %q, expected %v %q", i, entries[i].Level, entries[i].Message, tt.level, tt.message)
		}
	}

	ctx := entries[3].ContextMap()
	if ctx["run"] != "abc" || ctx["nodata"] != int64(7) {
		t.Errorf("run entry context = %v", ctx)
	}
	if GetZapLogger() == nil {
		t.Error("GetZapLogger returned nil after SetLogger")
	}
}

func TestInit(t *testing.T) {
	for _, debug := range []bool{false, true} {
		if err := Init(debug); err != nil {
			t.Errorf("Init(%v): %v", debug, err)
		}
	}
	Sync()
}
