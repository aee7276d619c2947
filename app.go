package main

import (
	"flag"
	"math/rand"
	"os"
	"time"

	"github.com/faiface/mainthread"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/chunkstream/engine/config"
	"github.com/memmaker/chunkstream/engine/meshexport"
	"github.com/memmaker/chunkstream/engine/persist"
	"github.com/memmaker/chunkstream/engine/stream"
	"github.com/memmaker/chunkstream/engine/terrain"
	"github.com/memmaker/chunkstream/engine/util"
	"github.com/memmaker/chunkstream/engine/voxel"
)

const frameRate = 60

func main() {
	configFile := flag.String("config", "", "YAML config file")
	radius := flag.Int("radius", 0, "resident radius in chunks, overrides the config")
	workers := flag.Int("workers", 0, "worker goroutines, overrides the config")
	dataDir := flag.String("data", "", "directory for edited chunks, overrides the config")
	frames := flag.Int("frames", 20*frameRate, "frames to simulate")
	exportPath := flag.String("export", "", "write the observer's chunk mesh to this glTF file on exit")
	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			util.LogSystemError(err.Error())
			os.Exit(1)
		}
		cfg = loaded
	}
	if *radius > 0 {
		cfg.ResidentRadius = int32(*radius)
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if err := cfg.Validate(); err != nil {
		util.LogSystemError(err.Error())
		os.Exit(1)
	}
	should(cfg.Apply())

	mainthread.Run(func() {
		runStreaming(cfg, *frames, *exportPath)
	})
}

func runStreaming(cfg config.Config, frames int, exportPath string) {
	var generator voxel.Generator = terrain.NewSimplex(cfg.Seed)
	var evictor stream.Evictor
	if cfg.DataDir != "" {
		store, err := persist.NewStore(cfg.DataDir, generator)
		if err != nil {
			util.LogIOError(err.Error())
			return
		}
		defer store.Close()
		generator, evictor = store, store
	}

	world := stream.NewWorld(stream.Config{Workers: cfg.Workers, Generator: generator, Evictor: evictor})
	defer world.Close()
	controller := stream.NewController(world, cfg.ResidentRadius, cfg.Limiter())
	renderer := newCountingRenderer()

	span := float32(cfg.ResidentRadius * voxel.CHUNK_WIDTH)
	flight := NewFlight(mgl32.Vec3{8, 80, 8}, 24, []mgl32.Vec3{
		{8 + 2*span, 80, 8},
		{8 + 2*span, 80, 8 + 2*span},
		{8, 80, 8 + span},
		{8 - span, 90, 8 - span},
		{8, 80, 8},
	})
	rnd := rand.New(rand.NewSource(cfg.Seed))

	ticker := time.NewTicker(time.Second / frameRate)
	defer ticker.Stop()
	timer := util.NewTimer()
	for frame := 0; frame < frames && !flight.Done(); frame++ {
		<-ticker.C
		done := timer.Start("frame")
		flight.Update(1.0 / frameRate)
		controller.Update(flight.Position())
		mainthread.Call(func() {
			world.Uploads().Drain(renderer)
		})
		if frame%frameRate == 0 {
			digBelow(world, flight.Position(), rnd)
		}
		done()
		if frame%(5*frameRate) == 0 {
			util.LogSystemInfo(util.Logf("Demo", "frame %d at %v\n%s\n%s\n%s", frame, voxel.ChunkOf(flight.Position()), world.Stats(), renderer, timer))
		}
	}

	if exportPath != "" {
		coord := voxel.ChunkOf(flight.Position())
		faces, err := world.Faces(coord)
		if err != nil {
			util.LogIOError(err.Error())
			return
		}
		if err := meshexport.Save(exportPath, coord, faces); err != nil {
			util.LogIOError(err.Error())
			return
		}
		util.LogIOInfo(util.Logf("Demo", "exported %d faces of %v to %s", len(faces), coord, exportPath))
	}
}

// digBelow carves the surface block of a random column near the observer.
func digBelow(world *stream.World, observer mgl32.Vec3, rnd *rand.Rand) {
	x := observer.X() + float32(rnd.Int31n(2*voxel.CHUNK_WIDTH)-voxel.CHUNK_WIDTH)
	z := observer.Z() + float32(rnd.Int31n(2*voxel.CHUNK_WIDTH)-voxel.CHUNK_WIDTH)
	var lookupErr error
	hit := voxel.Raycast(mgl32.Vec3{x, float32(voxel.CHUNK_HEIGHT) - 0.5, z}, mgl32.Vec3{x, 0.5, z}, func(cell voxel.Int3) bool {
		b, err := world.GetBlock(cell)
		if err != nil {
			lookupErr = err
			return true
		}
		return b.IsSolid()
	})
	if lookupErr != nil {
		util.LogStreamDebug(util.Logf("Demo", "skipping dig at %.0f,%.0f: %v", x, z, lookupErr))
		return
	}
	if hit.Hit && hit.Cell.Y > 0 {
		should(world.SetBlock(hit.Cell, voxel.Air))
	}
}

func should(err error) {
	if err != nil {
		util.LogSystemError(err.Error())
	}
}
