// Command voxnav voxelizes an OBJ scene into a heightfield-derived voxel
// occupancy volume and writes it into a navmesh container file. The
// navigation-mesh polygon blob itself comes from an external mesh codec and
// may be supplied pre-built via -mesh-blob.
package main

import (
	"flag"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"voxnav/navmesh"
	"voxnav/voxelizer"
)

func main() {
	var (
		settingsPath = flag.String("settings", "", "YAML build settings; defaults when empty")
		objPath      = flag.String("obj", "", "input scene OBJ (required)")
		meshBlobPath = flag.String("mesh-blob", "", "pre-built navigation mesh blob to bundle")
		outPath      = flag.String("out", "scene.nvmd", "output container; .zst suffix compresses")
		tiles        = flag.Int("tiles", 1, "split the grid into N x N heightfield tiles built in parallel")
		contentLen   = flag.Int("tile-content", 4096, "voxel tile content buffer length in elements")
		logPath      = flag.String("log", "", "also write logs to this rotating file")
		verbose      = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	logger := newLogger(*logPath, *verbose)
	defer logger.Sync()

	if *objPath == "" {
		logger.Fatal("missing -obj")
	}

	cfg := voxelizer.DefaultConfig()
	if *settingsPath != "" {
		var err error
		if cfg, err = voxelizer.LoadConfig(*settingsPath); err != nil {
			logger.Fatal("load settings", zap.Error(err))
		}
	}

	mesh, err := loadOBJ(*objPath, voxelizer.GeometryTerrain)
	if err != nil {
		logger.Fatal("load scene", zap.Error(err))
	}
	inst := voxelizer.NewInstance(mesh, mgl32.Ident4(), 0, 0)
	instances := []*voxelizer.Instance{inst}
	logger.Info("scene loaded",
		zap.Int("verts", len(mesh.Verts)),
		zap.Int("prims", len(mesh.Prims)),
	)

	var meshBlob []byte
	if *meshBlobPath != "" {
		if meshBlob, err = os.ReadFile(*meshBlobPath); err != nil {
			logger.Fatal("load mesh blob", zap.Error(err))
		}
	}

	volume, err := buildVolume(cfg, instances, inst.BMin, inst.BMax, *tiles, *contentLen, logger)
	if err != nil {
		logger.Fatal("build volume", zap.Error(err))
	}

	data := &navmesh.NavMeshData{MeshData: meshBlob, Volume: volume}
	if err := data.SaveFile(*outPath); err != nil {
		logger.Fatal("save container", zap.Error(err))
	}
	logger.Info("container written", zap.String("path", *outPath))
}

// buildVolume voxelizes the instances over the given world bounds. With
// tiles > 1 the grid is cut into disjoint heightfield tiles, each built by
// its own rasterizer; a heightfield is single-writer, so parallelism only
// exists across tiles.
func buildVolume(cfg *voxelizer.Config, instances []*voxelizer.Instance,
	bmin, bmax [3]float32, tiles, contentLen int, logger *zap.Logger) (*navmesh.VoxelVolume, error) {

	if tiles <= 1 {
		hf := buildTileHeightfield(cfg, instances, bmin, bmax, logger)
		return voxelizer.BuildVoxelVolume(hf, contentLen), nil
	}

	width, height := voxelizer.CalcGridSize(bmin, bmax, cfg.CellSize)
	tileW := (width + int32(tiles) - 1) / int32(tiles)
	tileH := (height + int32(tiles) - 1) / int32(tiles)

	roots := make([]*navmesh.VoxelTile, tiles*tiles)
	var g errgroup.Group
	for tz := 0; tz < tiles; tz++ {
		for tx := 0; tx < tiles; tx++ {
			tx, tz := tx, tz
			g.Go(func() error {
				x0 := int32(tx) * tileW
				z0 := int32(tz) * tileH
				w := min(tileW, width-x0)
				h := min(tileH, height-z0)
				if w <= 0 || h <= 0 {
					return nil
				}
				tmin := [3]float32{
					bmin[0] + float32(x0)*cfg.CellSize,
					bmin[1],
					bmin[2] + float32(z0)*cfg.CellSize,
				}
				tmax := [3]float32{
					tmin[0] + float32(w)*cfg.CellSize,
					bmax[1],
					tmin[2] + float32(h)*cfg.CellSize,
				}
				hf := buildTileHeightfield(cfg, instances, tmin, tmax, logger)
				vol := voxelizer.BuildVoxelVolume(hf, contentLen)
				vol.Root.Level = 1
				roots[tx+tz*tiles] = vol.Root
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	root := &navmesh.VoxelTile{
		BMin:     bmin,
		BMax:     bmax,
		Contents: make([]uint16, contentLen),
	}
	for _, sub := range roots {
		if sub != nil {
			root.SubTiles = append(root.SubTiles, sub)
		}
	}
	return &navmesh.VoxelVolume{
		BMin:           bmin,
		BMax:           bmax,
		TileContentLen: contentLen,
		Root:           root,
	}, nil
}

func buildTileHeightfield(cfg *voxelizer.Config, instances []*voxelizer.Instance,
	bmin, bmax [3]float32, logger *zap.Logger) *voxelizer.Heightfield {

	width, height := voxelizer.CalcGridSize(bmin, bmax, cfg.CellSize)
	hf := voxelizer.NewHeightfield(width, height, bmin, bmax, cfg.CellSize, cfg.CellHeight)
	r := voxelizer.NewRasterizer(cfg, hf, logger)
	r.RasterizeInstances(instances)
	logger.Debug("tile voxelized",
		zap.Int32("width", width),
		zap.Int32("height", height),
		zap.Int("spans", hf.SpanCount()),
	)
	return hf
}

func newLogger(path string, verbose bool) *zap.Logger {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), level)
	if path != "" {
		sink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   path,
			MaxSize:    50, // MB
			MaxBackups: 3,
		})
		core = zapcore.NewTee(core,
			zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), sink, level))
	}
	return zap.New(core)
}
