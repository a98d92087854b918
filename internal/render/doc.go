// Package render defines the drawing collaborator the simulation talks to.
//
// The simulation owns entity data; a [Renderer] owns drawable resources.
// The two are linked one-to-one by an opaque [Handle]. The simulation only
// ever writes to a renderer and reads the canvas size from a [Surface].
//
// [Recorder] is an in-memory renderer that keeps the latest state of every
// visual. Front-ends embed it and rasterize its [Recorder.Visuals] each frame;
// tests and headless runs use it directly.
package render
