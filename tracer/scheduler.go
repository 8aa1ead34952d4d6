package tracer

import (
	"math"
	"sync"

	"github.com/achilleasa/wavefront/buffers"
	"github.com/achilleasa/wavefront/tracer/device"
)

// Max tile edge in pixels.
const maxTileSize = 64

// The work scheduler splits a buffer region and a sample range into work
// tiles. Tiles are sized so that W*H*NumSamples never exceeds the path state
// capacity of the queues that consume them. Tiles are enumerated sample
// range first, then tile rows and then tile columns; every (pixel, sample)
// pair is covered by exactly one tile. GetWork is safe for concurrent use.
type WorkScheduler struct {
	sync.Mutex

	maxNumPathStates int

	params      buffers.Params
	startSample int
	numSamples  int

	tileW, tileH   int
	samplesPerTile int

	numTilesX       int
	numTilesY       int
	numSampleRanges int

	nextTile int
}

// Create a new work scheduler.
func NewWorkScheduler() *WorkScheduler {
	return &WorkScheduler{maxNumPathStates: 1}
}

// Set the path state capacity of the queues. Takes effect on the next Reset.
func (ws *WorkScheduler) SetMaxNumPathStates(capacity int) {
	ws.Lock()
	defer ws.Unlock()
	if capacity < 1 {
		capacity = 1
	}
	ws.maxNumPathStates = capacity
}

// Reset the scheduler to cover the given buffer region and sample range.
func (ws *WorkScheduler) Reset(params buffers.Params, startSample, numSamples int) {
	ws.Lock()
	defer ws.Unlock()

	ws.params = params
	ws.startSample = startSample
	ws.numSamples = numSamples
	ws.nextTile = 0

	if params.Width <= 0 || params.Height <= 0 || numSamples <= 0 {
		ws.numTilesX, ws.numTilesY, ws.numSampleRanges = 0, 0, 0
		return
	}

	// Largest square edge that fits the capacity; the other edge grows to
	// use any leftover capacity when the region is narrower than the edge.
	capacity := ws.maxNumPathStates
	edge := int(math.Sqrt(float64(capacity)))
	edge = max(1, min(edge, maxTileSize))
	ws.tileW = min(edge, params.Width)
	ws.tileH = min(max(1, capacity/ws.tileW), maxTileSize, params.Height)
	ws.samplesPerTile = max(1, min(numSamples, capacity/(ws.tileW*ws.tileH)))

	ws.numTilesX = divCeil(params.Width, ws.tileW)
	ws.numTilesY = divCeil(params.Height, ws.tileH)
	ws.numSampleRanges = divCeil(numSamples, ws.samplesPerTile)
}

// Claim the next tile. Returns false once all tiles have been claimed.
func (ws *WorkScheduler) GetWork(tile *device.WorkTile) bool {
	ws.Lock()
	defer ws.Unlock()

	tilesPerRange := ws.numTilesX * ws.numTilesY
	if ws.nextTile >= tilesPerRange*ws.numSampleRanges {
		return false
	}
	tileIndex := ws.nextTile
	ws.nextTile++

	sampleRange := tileIndex / tilesPerRange
	tileIndex %= tilesPerRange
	tileX, tileY := tileIndex%ws.numTilesX, tileIndex/ws.numTilesX

	x := ws.params.FullX + tileX*ws.tileW
	y := ws.params.FullY + tileY*ws.tileH
	start := ws.startSample + sampleRange*ws.samplesPerTile
	offset, stride := ws.params.OffsetStride()

	*tile = device.WorkTile{
		X:           x,
		Y:           y,
		W:           min(ws.tileW, ws.params.FullX+ws.params.Width-x),
		H:           min(ws.tileH, ws.params.FullY+ws.params.Height-y),
		StartSample: start,
		NumSamples:  min(ws.samplesPerTile, ws.startSample+ws.numSamples-start),
		Offset:      offset,
		Stride:      stride,
	}
	return true
}

// The total number of tiles for the current region.
func (ws *WorkScheduler) NumTiles() int {
	ws.Lock()
	defer ws.Unlock()
	return ws.numTilesX * ws.numTilesY * ws.numSampleRanges
}

// The number of tiles claimed since the last reset.
func (ws *WorkScheduler) NumClaimed() int {
	ws.Lock()
	defer ws.Unlock()
	return ws.nextTile
}

// Get the nominal tile dimensions and samples per tile.
func (ws *WorkScheduler) TileSize() (w, h, samples int) {
	ws.Lock()
	defer ws.Unlock()
	return ws.tileW, ws.tileH, ws.samplesPerTile
}

func divCeil(a, b int) int {
	return (a + b - 1) / b
}
