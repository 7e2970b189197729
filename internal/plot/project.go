// Package plot draws damage events as a 3D scatter projected onto PNG
// frames, and the cumulative damage timeline.
package plot

import "math"

// Camera is an orthographic view from azimuth and elevation, in degrees.
type Camera struct {
	Azimuth   float64
	Elevation float64
}

// DefaultCamera matches the usual 3D axes view.
var DefaultCamera = Camera{Azimuth: -60, Elevation: 30}

// project maps a 3D point onto view coordinates, u to the right and v up.
func (c Camera) project(x, y, z float64) (u, v float64) {
	az := c.Azimuth * math.Pi / 180
	el := c.Elevation * math.Pi / 180
	u = -x*math.Sin(az) + y*math.Cos(az)
	v = -(x*math.Cos(az)+y*math.Sin(az))*math.Sin(el) + z*math.Cos(el)
	return u, v
}

// viewport fits view coordinates of a cube of half-width extent into a
// w by h pixel canvas.
type viewport struct {
	cam    Camera
	cx, cy float64
	k      float64
}

func newViewport(cam Camera, w, h int, extent float64) viewport {
	if extent <= 0 {
		extent = 1
	}
	// the projected cube spans at most its space diagonal
	k := math.Min(float64(w), float64(h)) / (2 * extent * math.Sqrt(3))
	return viewport{cam: cam, cx: float64(w) / 2, cy: float64(h) / 2, k: k}
}

func (vp viewport) pixel(x, y, z float64) (float64, float64) {
	u, v := vp.cam.project(x, y, z)
	return vp.cx + u*vp.k, vp.cy - v*vp.k
}
