package options

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Numbertalktw/sku-gen-sheet/internal/metrics"
	"github.com/Numbertalktw/sku-gen-sheet/internal/model"
)

func TestLoader_LoadAll(t *testing.T) {
	loader := NewLoader(seededSource(), testSpecs())
	snap := loader.Load(context.Background())

	require.NotEmpty(t, snap.ID)
	require.Empty(t, snap.Diagnostics)
	require.Equal(t, []string{"category", "feature", "color", "size"}, snap.Order)
	require.Equal(t, []string{"WidgetA", "WidgetB"}, snap.Set("category").Labels())
	require.Equal(t, []string{"Red", "Blue"}, snap.Set("feature").Labels())
	require.Equal(t, []string{"Cotton"}, snap.Set("size").Labels())
}

func TestLoader_FailureIsIsolated(t *testing.T) {
	src := seededSource()
	src.fail("顏色/材質", errors.New("403 forbidden"))

	loader := NewLoader(src, testSpecs(), WithConcurrency(1), WithMetrics(metrics.New()))
	snap := loader.Load(context.Background())

	keys := make([]string, 0, len(snap.Sets))
	for k := range snap.Sets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	require.Equal(t, []string{"category", "color", "feature", "size"}, keys)

	require.Equal(t, 0, snap.Set("color").Len())
	require.NotNil(t, snap.Set("color").Options)
	require.Equal(t, 2, snap.Set("category").Len())
	require.Equal(t, 2, snap.Set("feature").Len())
	require.Equal(t, 1, snap.Set("size").Len())

	require.Len(t, snap.Diagnostics, 1)
	diag, ok := snap.DiagnosticFor("color")
	require.True(t, ok)
	require.Equal(t, "顏色/材質", diag.Sheet)
	require.Contains(t, diag.Message, "顏色/材質")
	require.Contains(t, diag.Cause, "403 forbidden")
}

func TestLoader_AllFail(t *testing.T) {
	loader := NewLoader(newFakeSource(), testSpecs())
	snap := loader.Load(context.Background())

	require.Len(t, snap.Sets, 4)
	require.Len(t, snap.Diagnostics, 4)
	for _, key := range snap.Order {
		require.Zero(t, snap.Set(key).Len(), key)
	}
}

func TestLoader_ParseFailureDegradesCategory(t *testing.T) {
	one := 1
	specs := []model.CategorySpec{
		{Key: "color", Sheet: "colors", ValueColumn: &one},
		{Key: "size", Sheet: "sizes"},
	}
	src := newFakeSource()
	src.set("colors", []string{"紅色", "RD"}, []string{"藍色"})
	src.set("sizes", []string{"S"})

	snap := NewLoader(src, specs).Load(context.Background())
	require.Zero(t, snap.Set("color").Len())
	require.Equal(t, 1, snap.Set("size").Len())

	diag, ok := snap.DiagnosticFor("color")
	require.True(t, ok)
	require.Contains(t, diag.Cause, "missing value column")
}

func TestLoader_DuplicateLabelsKeepFirst(t *testing.T) {
	one := 1
	specs := []model.CategorySpec{{Key: "color", Sheet: "colors", ValueColumn: &one}}
	src := newFakeSource()
	src.set("colors", []string{"紅色", "RD"}, []string{"藍色", "BL"}, []string{"紅色", "R2"})

	snap := NewLoader(src, specs).Load(context.Background())
	require.Equal(t, []model.Option{{Label: "紅色", Value: "RD"}, {Label: "藍色", Value: "BL"}}, snap.Set("color").Options)
}

func TestLoader_SkipHeader(t *testing.T) {
	src := newFakeSource()
	src.set("sizes", []string{"尺寸"}, []string{"S"})

	snap := NewLoader(src, []model.CategorySpec{{Key: "size", Sheet: "sizes"}}, WithSkipHeader(true)).Load(context.Background())
	require.Equal(t, []string{"S"}, snap.Set("size").Labels())
}
