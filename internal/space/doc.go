// Package space implements the floating-origin coordinate scheme that keeps
// double-precision accuracy at astronomical distances.
//
// World space is partitioned into cubic sectors of edge [SectorSize] meters,
// addressed by an integer [Sector3]. A [WorldPos] pairs a sector with a local
// meter offset bounded, per axis, to [-SectorSize/2, +SectorSize/2). Because
// the local part never grows past half a sector edge, positions retain full
// float64 resolution no matter how far a body drifts from the global origin.
//
//   - [WorldPos.AddLocal]: the only sanctioned way to move a position
//   - [Delta]: the only sanctioned way to measure between two positions
//   - [ToRender]: lossy float32 conversion for the display layer only
//
// Subtracting raw Local components of positions in different sectors is
// never valid; sector-scale differences are taken in the integer domain by
// [Delta] before the small local remainder is combined in.
package space
