package stegano_test

import (
	"context"
	"fmt"
	"image"
	"image/color"

	stegano "github.com/yyyoichi/stegano_lsb"
)

func Example_stegano() {
	// Create a simple gradient image (200x200 pixels)
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	for y := 0; y < img.Bounds().Dy(); y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			// Create gradient effect: red increases with x, green increases with y, blue is a mix
			r := uint8(x * 255 / 200)
			g := uint8(y * 255 / 200)
			b := uint8((x + y) * 255 / 400)
			img.Set(x, y, color.RGBA{r, g, b, 255})
		}
	}

	// Two low bits of the red and green channels
	c, err := stegano.New(
		stegano.WithBitDepth(2),
		stegano.WithChannelString("RG"),
	)
	if err != nil {
		fmt.Printf("Error creating codec: %v\n", err)
		return
	}
	fmt.Printf("Capacity: %d bytes\n", c.Capacity(img.Bounds()))

	ctx := context.Background()
	encoded, err := c.Encode(ctx, img, stegano.Text("Test-Message"))
	if err != nil {
		fmt.Printf("Error encoding: %v\n", err)
		return
	}

	msg, err := c.Decode(ctx, encoded)
	if err != nil {
		fmt.Printf("Error decoding: %v\n", err)
		return
	}
	fmt.Println(msg.String(), msg.Terminated())

	// Output:
	// Capacity: 19995 bytes
	// Test-Message true
}
