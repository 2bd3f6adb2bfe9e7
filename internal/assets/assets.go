// Package assets loads what the renderer draws: two precompiled shaders, one texture and the
// compiled-in box mesh.
package assets

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type Sources struct {
	VertexShader   string
	FragmentShader string
	Texture        string
}

type Assets struct {
	VertexShader   []uint32
	FragmentShader []uint32
	Texture        Texture
	Mesh           Mesh
}

// Load reads both shaders and decodes the texture concurrently. The first failure wins.
func Load(ctx context.Context, src Sources) (*Assets, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a := &Assets{Mesh: BoxMesh()}

	group, _ := errgroup.WithContext(ctx)
	group.Go(func() error {
		code, err := ReadShader(src.VertexShader)
		a.VertexShader = code
		return err
	})
	group.Go(func() error {
		code, err := ReadShader(src.FragmentShader)
		a.FragmentShader = code
		return err
	})
	group.Go(func() error {
		tex, err := LoadTexture(src.Texture)
		a.Texture = tex
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return a, nil
}
