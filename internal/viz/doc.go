// Package viz renders the simulation in the terminal: a braille-dot canvas
// projecting body positions around a followed camera body, and a bubbletea
// model wiring it to a live, keyboard-driven view with an energy-drift
// chart. Everything here consumes simulation output; nothing feeds back into
// the physics except the time-scale and worker-count controls.
package viz
