/*
Package randomart turns a phrase into a deterministic piece of generative art.

A phrase seeds a random source; a complexity budget decides how large the expression tree grows.
The tree maps every coordinate (x, y) in [-1, 1]² to an RGB color, and rendering a raster is just
evaluating it once per pixel. The same phrase and complexity always give the same tree, the same
text form and the same pixels.

# Concept

  - Generation: a budget-splitting recursive builder picks operators from a fixed catalog
    (see package art). All randomness comes from one source owned by the generator.
  - Evaluation: read-only and embarrassingly parallel. Rows are rendered concurrently.
  - Serialization: every tree has a canonical text form that parses back to an identical tree,
    so art can be shared, edited and re-rendered without the phrase.

# Usage

	package main

	import (
		"context"
		"log"
		"os"

		"github.com/aretw0/randomart"
		"github.com/aretw0/randomart/pkg/render"
	)

	func main() {
		eng, err := randomart.New()
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		tree, err := eng.Generate(ctx, "hello", 12)
		if err != nil {
			log.Fatal(err)
		}

		img, err := eng.Render(ctx, tree, 256)
		if err != nil {
			log.Fatal(err)
		}

		f, err := os.Create("hello.png")
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		if err := render.EncodePNG(f, img); err != nil {
			log.Fatal(err)
		}
	}
*/
package randomart
