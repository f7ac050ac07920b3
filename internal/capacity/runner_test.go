package capacity

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riverscapes/brat/internal/project"
	"github.com/riverscapes/brat/pkg/types"
)

func fptr(v float64) *float64 { return &v }

func testConfig() types.Config {
	return types.Config{
		ProjectPath:       "unused",
		StreamsideBufferM: types.DefaultStreamsideBufferM,
		RiparianBufferM:   types.DefaultRiparianBufferM,
		Workers:           2,
	}
}

// newTestProject builds a project with one ecoregion, one configured
// watershed, vegetation reference data, and three reaches: a complete one,
// one over the drainage threshold, and one missing its slope.
func newTestProject(t *testing.T) *project.Project {
	t.Helper()

	p, err := project.Create(filepath.Join(t.TempDir(), "test.gpkg"))
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })

	require.NoError(t, p.InsertEcoregion(types.Ecoregion{EcoregionID: 5, Name: "Middle Rockies"}))
	require.NoError(t, p.InsertWatershed(types.Watershed{
		WatershedID: "17060304",
		Name:        "Asotin Creek",
		AreaSqKm:    2000,
		EcoregionID: 5,
		MaxDrainage: 100,
	}))

	for _, vt := range []types.VegetationType{
		{VegetationID: 1284, Epoch: types.EpochExisting, Name: "Willow Shrubland", DefaultSuitability: 2},
		{VegetationID: 9101, Epoch: types.EpochHistoric, Name: "Riparian Forest", DefaultSuitability: 4},
	} {
		require.NoError(t, p.InsertVegetationType(vt))
	}
	require.NoError(t, p.InsertVegetationOverride(types.VegetationOverride{
		EcoregionID: 5, VegetationID: 1284, OverrideSuitability: 4,
	}))

	require.NoError(t, p.SetWatershedParam("17060304", types.ParamQLow, 10))
	require.NoError(t, p.SetWatershedParam("17060304", types.ParamQ2, 400))
	require.NoError(t, p.SetWatershedParam("17060304", types.ParamDAExp, 0.9))

	reaches := []types.Reach{
		{ReachID: 1, WatershedID: "17060304", ReachCode: types.ReachPerennial, IsPerennial: true,
			LengthM: 420, Slope: fptr(0.012), DrainageSqKm: fptr(12.3), RoadDistM: fptr(250)},
		{ReachID: 2, WatershedID: "17060304", ReachCode: types.ReachPerennial, IsPerennial: true,
			LengthM: 900, Slope: fptr(0.004), DrainageSqKm: fptr(150)},
		{ReachID: 3, WatershedID: "17060304", ReachCode: types.ReachIntermittent,
			LengthM: 310, DrainageSqKm: fptr(4.1)}, // no slope
	}
	for _, r := range reaches {
		require.NoError(t, p.InsertReach(r))
	}

	for id := 1; id <= 2; id++ {
		require.NoError(t, p.ReplaceReachVegetation(id, []types.ReachVegetation{
			{ReachID: id, VegetationID: 1284, BufferM: 30, AreaSqM: 2700, CellCount: 3},
			{ReachID: id, VegetationID: 1284, BufferM: 100, AreaSqM: 8100, CellCount: 9},
			{ReachID: id, VegetationID: 9101, BufferM: 30, AreaSqM: 2700, CellCount: 3},
			{ReachID: id, VegetationID: 9101, BufferM: 100, AreaSqM: 8100, CellCount: 9},
		}))
	}

	return p
}

func quietRunner() Runner {
	return Runner{Log: slog.New(slog.DiscardHandler), Workers: 2}
}

func TestRunner_Run(t *testing.T) {
	p := newTestProject(t)
	runner := quietRunner()

	summary, err := runner.Run(context.Background(), p, testConfig())
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, []int{3}, summary.SkippedReaches)
	assert.Empty(t, summary.FailedWatersheds)

	// The complete reach has every output populated.
	r1, err := p.GetReach(1)
	require.NoError(t, err)
	require.NotNil(t, r1.CapacityEX)
	require.NotNil(t, r1.CapacityHPE)
	require.NotNil(t, r1.VegCapacityEX)
	require.NotNil(t, r1.SP2)
	require.NotNil(t, r1.CapacityClassEX)
	require.NotNil(t, r1.RiskID)
	require.NotNil(t, r1.LimitationID)
	require.NotNil(t, r1.OpportunityID)
	assert.GreaterOrEqual(t, *r1.CapacityEX, 0.0)
	assert.NotEqual(t, types.LimitationMajorRiver, *r1.LimitationID)

	// Reach 2 drains more than MaxDrainage: the limitation is forced.
	r2, err := p.GetReach(2)
	require.NoError(t, err)
	require.NotNil(t, r2.LimitationID)
	assert.Equal(t, types.LimitationMajorRiver, *r2.LimitationID)

	// The skipped reach stays null end to end.
	r3, err := p.GetReach(3)
	require.NoError(t, err)
	assert.Nil(t, r3.CapacityEX)
	assert.Nil(t, r3.QLow)
	assert.Nil(t, r3.RiskID)

	// Run metadata recorded.
	rec, err := p.LastRun()
	require.NoError(t, err)
	assert.Equal(t, summary.RunID, rec.RunID)
	assert.Equal(t, 2, rec.Processed)
	assert.Equal(t, 1, rec.Skipped)
	assert.NotEmpty(t, rec.ParamsDigest)
	require.NotNil(t, rec.FinishedAt)
}

func TestRunner_Idempotent(t *testing.T) {
	p := newTestProject(t)
	runner := quietRunner()

	_, err := runner.Run(context.Background(), p, testConfig())
	require.NoError(t, err)
	first, err := p.GetReach(1)
	require.NoError(t, err)

	summary, err := runner.Run(context.Background(), p, testConfig())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Processed)

	second, err := p.GetReach(1)
	require.NoError(t, err)

	// Identical parameter tables reproduce identical outputs.
	assert.Equal(t, *first.CapacityEX, *second.CapacityEX)
	assert.Equal(t, *first.CapacityHPE, *second.CapacityHPE)
	assert.Equal(t, *first.VegCapacityEX, *second.VegCapacityEX)
	assert.Equal(t, *first.SP2, *second.SP2)
	assert.Equal(t, *first.RiskID, *second.RiskID)
	assert.Equal(t, *first.OpportunityID, *second.OpportunityID)
}

func TestRunner_MissingHydroParamAbortsWatershed(t *testing.T) {
	p := newTestProject(t)

	// A second watershed missing its parameters: its reach must be
	// untouched while the first watershed still runs.
	require.NoError(t, p.InsertWatershed(types.Watershed{
		WatershedID: "17060305",
		Name:        "Unconfigured",
		AreaSqKm:    800,
		EcoregionID: 5,
	}))
	require.NoError(t, p.InsertReach(types.Reach{
		ReachID: 10, WatershedID: "17060305", ReachCode: types.ReachPerennial,
		LengthM: 100, Slope: fptr(0.01), DrainageSqKm: fptr(5),
	}))

	runner := quietRunner()
	summary, err := runner.Run(context.Background(), p, testConfig())
	require.ErrorIs(t, err, types.ErrMissingHydroParam)

	assert.Equal(t, []string{"17060305"}, summary.FailedWatersheds)
	assert.Equal(t, 2, summary.Processed)

	r10, err := p.GetReach(10)
	require.NoError(t, err)
	assert.Nil(t, r10.CapacityEX)
	assert.Nil(t, r10.QLow)

	r1, err := p.GetReach(1)
	require.NoError(t, err)
	assert.NotNil(t, r1.CapacityEX)
}

func TestRunner_RejectsMismatchedBufferWidths(t *testing.T) {
	p := newTestProject(t)
	runner := quietRunner()

	// Aggregates were built at 30/100 m; a config edited to other widths
	// must fail the run instead of scoring every reach as bare ground.
	cfg := testConfig()
	cfg.StreamsideBufferM = 25
	cfg.RiparianBufferM = 80

	_, err := runner.Run(context.Background(), p, cfg)
	require.ErrorIs(t, err, types.ErrBufferMismatch)

	// Nothing was computed, written, or recorded.
	r1, err := p.GetReach(1)
	require.NoError(t, err)
	assert.Nil(t, r1.VegCapacityEX)
	assert.Nil(t, r1.CapacityEX)
	_, err = p.LastRun()
	assert.ErrorIs(t, err, types.ErrNotFound)

	// A partial edit is just as wrong: the 100 m rows no longer apply.
	cfg = testConfig()
	cfg.RiparianBufferM = 80
	_, err = runner.Run(context.Background(), p, cfg)
	require.ErrorIs(t, err, types.ErrBufferMismatch)

	// The build widths still run.
	summary, err := runner.Run(context.Background(), p, testConfig())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Processed)
}

func TestRunner_Cancelled(t *testing.T) {
	p := newTestProject(t)
	runner := quietRunner()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, p, testConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComputeReach_NoVegetationScoresZero(t *testing.T) {
	p := newTestProject(t)

	// A reach with geometry but no vegetation rows: zero suitability is
	// data, not a skip.
	require.NoError(t, p.InsertReach(types.Reach{
		ReachID: 20, WatershedID: "17060304", ReachCode: types.ReachPerennial,
		LengthM: 100, Slope: fptr(0.01), DrainageSqKm: fptr(5),
	}))

	runner := quietRunner()
	summary, err := runner.Run(context.Background(), p, testConfig())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Processed)

	r, err := p.GetReach(20)
	require.NoError(t, err)
	require.NotNil(t, r.VegCapacityEX)
	require.NotNil(t, r.CapacityEX)
	assert.Equal(t, 0.0, *r.VegCapacityEX)
	assert.Equal(t, 0.0, *r.CapacityEX)
	require.NotNil(t, r.CapacityClassEX)
	assert.Equal(t, types.CapacityNone, *r.CapacityClassEX)
}
