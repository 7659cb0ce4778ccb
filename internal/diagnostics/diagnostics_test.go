package diagnostics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dshills/inheritdoc/pkg/types"
)

func TestNewAndMessage(t *testing.T) {
	owner := &types.Element{ID: "p.T", Name: "T", Kind: types.KindType}
	m := &types.Element{ID: "p.T.Get", Name: "Get", Kind: types.KindMethod, Params: []string{"string"}, Enclosing: owner}

	d := New(m, "", types.SearchResult{Reason: types.ReasonNotFound})
	assert.Equal(t, "p.T.Get", d.ElementID)
	assert.Equal(t, "Get(string)", d.Signature)
	assert.Contains(t, d.Message(), "Get(string) does not override")

	d = New(m, "return", types.SearchResult{Reason: types.ReasonNotFound})
	assert.Contains(t, d.Message(), "@return")

	d = New(m, "since", types.SearchResult{Reason: types.ReasonNotInheritable})
	assert.Equal(t, "@since does not support {@inheritDoc} in Get(string)", d.Message())
}

func TestLogReporter(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r := NewLogReporter(zap.New(core))

	r.Report(Diagnostic{Reason: types.ReasonNotFound, ElementID: "p.T", Signature: "T"})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "p.T", entry.ContextMap()["element"])
	assert.Equal(t, "not_found", entry.ContextMap()["reason"])
}

func TestCollectorConcurrent(t *testing.T) {
	c := &Collector{}
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Report(Diagnostic{Reason: types.ReasonNotFound})
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, c.Len())
	assert.Len(t, c.Diagnostics(), 10)
}

func TestTee(t *testing.T) {
	a, b := &Collector{}, &Collector{}
	Tee(a, b, Discard).Report(Diagnostic{ElementID: "x"})
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, b.Len())
}
