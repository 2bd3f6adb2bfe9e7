// Package shaders holds the GLSL sources of the box pipeline. The presenter loads the
// compiled SPIR-V from this directory at runtime.
package shaders

//go:generate glslc shader.vert -o vert.spv
//go:generate glslc shader.frag -o frag.spv
