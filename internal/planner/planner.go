// Package planner turns survey coverage requests into flyable missions. It
// orchestrates the camera footprint calculator, the raster generator, and the
// path assembler, then records the result in the mission state.
package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cdav1990/OverWatch-sub009/chunk"
	"github.com/cdav1990/OverWatch-sub009/core"
	"github.com/cdav1990/OverWatch-sub009/internal/logging"
	"github.com/cdav1990/OverWatch-sub009/internal/mission"
	"github.com/cdav1990/OverWatch-sub009/model"
)

const tracerName = "github.com/cdav1990/OverWatch-sub009/internal/planner"

// PlanMetricsRecorder receives the outcome of each plan generation run.
type PlanMetricsRecorder interface {
	ObservePlan(outcome string, d time.Duration, waypoints int)
}

// Planner plans survey missions against a shared mission state.
type Planner struct {
	state     *mission.State
	catalog   *core.CameraCatalog
	log       logging.Logger
	metrics   PlanMetricsRecorder
	chunkOpts chunk.Options
}

// Option customises Planner construction.
type Option func(*Planner)

// WithMetricsRecorder attaches an optional recorder for plan outcomes.
func WithMetricsRecorder(m PlanMetricsRecorder) Option {
	return func(p *Planner) {
		p.metrics = m
	}
}

// WithChunkOptions overrides the batch processing options used when deriving
// render-frame previews.
func WithChunkOptions(opts chunk.Options) Option {
	return func(p *Planner) {
		p.chunkOpts = opts
	}
}

// New constructs a Planner. The catalog supplies camera profiles referenced
// by name in requests.
func New(state *mission.State, catalog *core.CameraCatalog, log logging.Logger, opts ...Option) *Planner {
	if log == nil {
		log = logging.Noop()
	}
	p := &Planner{
		state:   state,
		catalog: catalog,
		log:     log,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Result is a fully planned survey.
type Result struct {
	Mission      *model.Mission
	Segment      *model.PathSegment
	Footprint    core.Footprint
	LineSpacingM float64

	// RenderPath is the segment's waypoints expressed in the render frame,
	// ready for a visualization client.
	RenderPath []model.RenderCoord
}

// Generate plans one survey mission end to end: it validates the request,
// derives line spacing from the camera footprint when not given explicitly,
// rasters the coverage area, assembles the flight path, and attaches the
// result to a newly created mission.
func (p *Planner) Generate(ctx context.Context, req *Request) (*Result, error) {
	start := time.Now()
	ctx, log := logging.WithPlanLogger(ctx, p.log)

	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "Planner/Generate", trace.WithAttributes(
		attribute.String("plan_id", logging.PlanIDFromContext(ctx)),
	))
	defer span.End()

	result, err := p.generate(ctx, log, req)
	if err != nil {
		span.RecordError(err)
		outcome := "error"
		if errors.Is(err, chunk.ErrCancelled) || errors.Is(err, context.Canceled) {
			outcome = "cancelled"
		}
		p.observe(outcome, start, 0)
		log.Error(ctx, "plan generation failed", logging.String("error", err.Error()))
		return nil, err
	}

	waypoints := result.Segment.WaypointCount()
	span.SetAttributes(
		attribute.String("mission_id", result.Mission.ID),
		attribute.String("segment_id", result.Segment.ID),
		attribute.Int("waypoints", waypoints),
	)
	p.observe("ok", start, waypoints)
	log.Info(ctx, "plan generated",
		logging.String("mission_id", result.Mission.ID),
		logging.String("segment_id", result.Segment.ID),
		logging.Int("waypoints", waypoints),
		logging.Float64("line_spacing_m", result.LineSpacingM),
		logging.Float64("gsd_cm_per_px", result.Footprint.GSDCmPerPx),
	)
	return result, nil
}

func (p *Planner) generate(ctx context.Context, log logging.Logger, req *Request) (*Result, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	cam, ok := p.catalog.Find(req.Camera)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCamera, req.Camera)
	}

	footprint, err := core.ComputeFootprint(cam, req.Coverage.AltitudeAGLM)
	if err != nil {
		return nil, fmt.Errorf("compute footprint: %w", err)
	}

	coverage := req.Coverage
	if coverage.LineSpacingM == 0 {
		spacing, err := deriveLineSpacing(footprint, coverage)
		if err != nil {
			return nil, err
		}
		coverage.LineSpacingM = spacing
		log.Debug(ctx, "derived line spacing",
			logging.Float64("spacing_m", spacing),
			logging.String("orientation", coverage.Orientation.String()),
		)
	}

	// Plan against a local frame first; the mission is only registered once
	// the segment is fully assembled, so a failed run leaves no state behind.
	frame, err := core.NewFrame(req.Origin)
	if err != nil {
		return nil, fmt.Errorf("anchor local frame: %w", err)
	}

	raster, err := core.GenerateRaster(coverage, req.Takeoff)
	if err != nil {
		return nil, fmt.Errorf("generate raster: %w", err)
	}

	takeoff := req.Takeoff
	segment, err := core.AssemblePath(frame, raster, &takeoff, req.Safety, req.SpeedMps)
	if err != nil {
		return nil, fmt.Errorf("assemble path: %w", err)
	}
	if req.HoldTime > 0 {
		for i := range segment.Waypoints {
			segment.Waypoints[i].HoldTime = req.HoldTime
		}
	}

	renderPath, err := chunk.Process(ctx, segment.Waypoints, func(wp model.Waypoint) (model.RenderCoord, error) {
		return core.ToRenderFrame(wp.Local), nil
	}, p.chunkOpts)
	if err != nil {
		return nil, fmt.Errorf("derive render path: %w", err)
	}

	m := &model.Mission{
		Name:    req.MissionName,
		Origin:  req.Origin,
		Takeoff: req.Takeoff,
	}
	if err := p.state.CreateMission(ctx, m); err != nil {
		return nil, fmt.Errorf("create mission: %w", err)
	}
	if err := p.state.AttachSegment(ctx, m.ID, segment); err != nil {
		if delErr := p.state.DeleteMission(ctx, m.ID); delErr != nil {
			log.Error(ctx, "failed to roll back mission after attach error",
				logging.String("mission_id", m.ID),
				logging.String("error", delErr.Error()),
			)
		}
		return nil, fmt.Errorf("attach segment: %w", err)
	}

	return &Result{
		Mission:      m,
		Segment:      segment,
		Footprint:    footprint,
		LineSpacingM: coverage.LineSpacingM,
		RenderPath:   renderPath,
	}, nil
}

// deriveLineSpacing picks the footprint dimension perpendicular to the flight
// lines. Horizontal lines step north between lines, so the cross-track
// dimension is the footprint width with the camera yawed along track.
func deriveLineSpacing(fp core.Footprint, coverage model.CoverageParams) (float64, error) {
	dim := fp.WidthM
	if coverage.Orientation == model.OrientationVertical {
		dim = fp.HeightM
	}
	spacing, err := core.ComputeLineSpacing(dim, coverage.OverlapFraction)
	if err != nil {
		return 0, fmt.Errorf("derive line spacing: %w", err)
	}
	return spacing, nil
}

func (p *Planner) observe(outcome string, start time.Time, waypoints int) {
	if p.metrics == nil {
		return
	}
	p.metrics.ObservePlan(outcome, time.Since(start), waypoints)
}
