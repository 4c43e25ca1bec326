package canvas

import (
	"image"
	"image/color"
)

// drawRectOutline draws a rectangle outline with the given thickness.
// Coordinates may arrive inverted.
func drawRectOutline(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	bounds := output.Bounds()

	for t := 0; t < thickness; t++ {
		for x := x1; x <= x2; x++ {
			setClipped(output, bounds, x, y1+t, col)
			setClipped(output, bounds, x, y2-t, col)
		}
		for y := y1; y <= y2; y++ {
			setClipped(output, bounds, x1+t, y, col)
			setClipped(output, bounds, x2-t, y, col)
		}
	}
}

// drawDashedRect draws a rubber-band rectangle with alternating pixels.
func drawDashedRect(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	bounds := output.Bounds()

	for x := x1; x <= x2; x++ {
		if (x+y1)%4 < 2 {
			setClipped(output, bounds, x, y1, col)
		}
		if (x+y2)%4 < 2 {
			setClipped(output, bounds, x, y2, col)
		}
	}
	for y := y1; y <= y2; y++ {
		if (x1+y)%4 < 2 {
			setClipped(output, bounds, x1, y, col)
		}
		if (x2+y)%4 < 2 {
			setClipped(output, bounds, x2, y, col)
		}
	}
}

// drawFilledSquare draws a filled square of half-width r centered at
// (cx, cy).
func drawFilledSquare(output *image.RGBA, cx, cy, r int, col color.RGBA) {
	bounds := output.Bounds()
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			setClipped(output, bounds, x, y, col)
		}
	}
}

// drawLine draws a line between two points using Bresenham's algorithm.
func drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := output.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				setClipped(output, bounds, x1+s, y1+t, col)
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func setClipped(output *image.RGBA, bounds image.Rectangle, x, y int, col color.RGBA) {
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		output.Set(x, y, col)
	}
}
