// Command planner plans a drone survey mission from a JSON request file and
// prints the resulting flight path. With -db set, the mission is also stored
// in a SQLite database so it can be re-exported later.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/cdav1990/OverWatch-sub009/chunk"
	"github.com/cdav1990/OverWatch-sub009/core"
	"github.com/cdav1990/OverWatch-sub009/internal/logging"
	"github.com/cdav1990/OverWatch-sub009/internal/mission"
	"github.com/cdav1990/OverWatch-sub009/internal/observability"
	"github.com/cdav1990/OverWatch-sub009/internal/planner"
	"github.com/cdav1990/OverWatch-sub009/internal/store/sqlite"
	"github.com/cdav1990/OverWatch-sub009/kb"
	"github.com/cdav1990/OverWatch-sub009/model"
)

func main() {
	requestPath := flag.String("request", "", "Path to a JSON plan request (required)")
	camerasPath := flag.String("cameras", "configs/cameras.json", "Path to the camera profile catalog")
	dbPath := flag.String("db", "", "SQLite database for mission persistence (empty disables)")
	metricsAddr := flag.String("metrics-addr", "", "HTTP address for Prometheus /metrics (empty disables)")
	outPath := flag.String("out", "-", "Where to write the planned path JSON (- for stdout)")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *requestPath == "" {
		fmt.Fprintln(os.Stderr, "planner: -request is required")
		flag.Usage()
		os.Exit(2)
	}

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	collector, err := observability.NewPlannerCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.String("error", err.Error()))
		os.Exit(1)
	}
	batch, err := observability.NewBatchCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise batch metrics", logging.String("error", err.Error()))
		os.Exit(1)
	}
	metricsSrv := serveMetrics(*metricsAddr, collector, log)

	catalog, err := loadCatalog(*camerasPath)
	if err != nil {
		log.Error(ctx, "failed to load camera catalog", logging.String("path", *camerasPath), logging.String("error", err.Error()))
		os.Exit(1)
	}

	stateOpts := []mission.StateOption{mission.WithMetricsRecorder(collector)}
	if *dbPath != "" {
		db, err := sqlite.Open(*dbPath)
		if err != nil {
			log.Error(ctx, "failed to open mission db", logging.String("path", *dbPath), logging.String("error", err.Error()))
			os.Exit(1)
		}
		defer db.Close()
		stateOpts = append(stateOpts, mission.WithPersister(db))
	}
	state := mission.NewState(kb.NewMissionStore(), log, stateOpts...)

	req, err := loadRequest(*requestPath)
	if err != nil {
		log.Error(ctx, "failed to load plan request", logging.String("path", *requestPath), logging.String("error", err.Error()))
		os.Exit(1)
	}

	p := planner.New(state, catalog, log,
		planner.WithMetricsRecorder(collector),
		planner.WithChunkOptions(batchChunkOptions(batch)),
	)
	result, err := p.Generate(ctx, req)
	if err != nil {
		log.Error(ctx, "planning failed", logging.String("error", err.Error()))
		os.Exit(1)
	}

	if err := writePlan(*outPath, result); err != nil {
		log.Error(ctx, "failed to write plan", logging.String("error", err.Error()))
		os.Exit(1)
	}

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
}

func loadCatalog(path string) (*core.CameraCatalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return core.LoadCameraCatalog(f)
}

func loadRequest(path string) (*planner.Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return planner.LoadRequest(f)
}

// batchChunkOptions feeds chunk progress into the batch metrics.
func batchChunkOptions(batch *observability.BatchCollector) chunk.Options {
	last := time.Now()
	completed := 0
	return chunk.Options{
		OnProgress: func(pr chunk.Progress) {
			now := time.Now()
			batch.ObserveChunk(now.Sub(last), pr.Completed-completed)
			last, completed = now, pr.Completed
			batch.SetProgressRatio(pr.Fraction())
		},
	}
}

func serveMetrics(addr string, collector *observability.PlannerCollector, log logging.Logger) *http.Server {
	if addr == "" || collector == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.String("error", err.Error()))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}

// planFile is the JSON shape written for a planned mission. Waypoints carry
// all three coordinate conventions so downstream consumers need no further
// conversion.
type planFile struct {
	MissionID    string         `json:"mission_id"`
	MissionName  string         `json:"mission_name"`
	SegmentID    string         `json:"segment_id"`
	SegmentType  string         `json:"segment_type"`
	MissionEnd   string         `json:"mission_end"`
	SpeedMps     float64        `json:"speed_mps"`
	LineSpacingM float64        `json:"line_spacing_m"`
	GSDCmPerPx   float64        `json:"gsd_cm_per_px"`
	FootprintWM  float64        `json:"footprint_width_m"`
	FootprintHM  float64        `json:"footprint_height_m"`
	Waypoints    []planWaypoint `json:"waypoints"`
}

type planWaypoint struct {
	LatitudeDeg    float64  `json:"latitude_deg"`
	LongitudeDeg   float64  `json:"longitude_deg"`
	AltitudeM      float64  `json:"altitude_m"`
	EastM          float64  `json:"east_m"`
	NorthM         float64  `json:"north_m"`
	UpM            float64  `json:"up_m"`
	RenderX        float64  `json:"render_x"`
	RenderY        float64  `json:"render_y"`
	RenderZ        float64  `json:"render_z"`
	HeadingDeg     float64  `json:"heading_deg"`
	GimbalPitchDeg float64  `json:"gimbal_pitch_deg"`
	SpeedMps       float64  `json:"speed_mps"`
	HoldTimeS      float64  `json:"hold_time_s"`
	Actions        []string `json:"actions,omitempty"`
}

func buildPlanFile(result *planner.Result) planFile {
	out := planFile{
		MissionID:    result.Mission.ID,
		MissionName:  result.Mission.Name,
		SegmentID:    result.Segment.ID,
		SegmentType:  string(result.Segment.Type),
		MissionEnd:   result.Segment.MissionEnd.String(),
		SpeedMps:     result.Segment.SpeedMps,
		LineSpacingM: result.LineSpacingM,
		GSDCmPerPx:   result.Footprint.GSDCmPerPx,
		FootprintWM:  result.Footprint.WidthM,
		FootprintHM:  result.Footprint.HeightM,
		Waypoints:    make([]planWaypoint, 0, len(result.Segment.Waypoints)),
	}
	for i, wp := range result.Segment.Waypoints {
		actions := make([]string, 0, len(wp.Actions))
		for _, a := range wp.Actions {
			actions = append(actions, string(a))
		}
		render := model.RenderCoord{}
		if i < len(result.RenderPath) {
			render = result.RenderPath[i]
		}
		out.Waypoints = append(out.Waypoints, planWaypoint{
			LatitudeDeg:    wp.Geodetic.LatitudeDeg,
			LongitudeDeg:   wp.Geodetic.LongitudeDeg,
			AltitudeM:      wp.Geodetic.AltitudeM,
			EastM:          wp.Local.E,
			NorthM:         wp.Local.N,
			UpM:            wp.Local.U,
			RenderX:        render.X,
			RenderY:        render.Y,
			RenderZ:        render.Z,
			HeadingDeg:     wp.Camera.HeadingDeg,
			GimbalPitchDeg: wp.Camera.GimbalPitchDeg,
			SpeedMps:       wp.SpeedMps,
			HoldTimeS:      wp.HoldTime.Seconds(),
			Actions:        actions,
		})
	}
	return out
}

func writePlan(path string, result *planner.Result) error {
	var w io.Writer = os.Stdout
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildPlanFile(result))
}
