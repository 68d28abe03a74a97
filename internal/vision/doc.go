// Package vision implements the lane-detection stages that turn a road
// frame into lane overlays.
//
// The stages form a fixed pipeline: grayscale conversion, Gaussian blur,
// Canny edge detection, polygonal region-of-interest masking, probabilistic
// Hough segment extraction, slope-based lane averaging, and overlay
// compositing. Pipeline bundles the stages behind a single Process call;
// every stage is also exported on its own so callers can run or test them
// in isolation.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner,
// X increasing rightward and Y increasing downward. Stages preserve the
// bounds of their input: a WxH frame in produces a WxH frame out at every
// step.
//
// # Determinism
//
// Every stage is a pure function of its inputs. Processing the same frame
// twice with the same configuration yields byte-identical outputs, which
// keeps golden-frame tests and repeated runs stable. The Hough extraction
// visits edge pixels in row-major order rather than sampling them randomly
// for the same reason.
//
// # Thread Safety
//
// A Pipeline is immutable after construction and safe for concurrent use.
// Stage functions never mutate their inputs; each returns a freshly
// allocated frame.
package vision
