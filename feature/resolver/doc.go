// Package resolver maps vehicle records to the camera tunable paths they
// control.
//
// Every vehicle record carries a binding list (tppCameraPresets) naming the
// camera records for its twelve view levels (High/Low x Close/Medium/Far,
// each with a Combat variant). First-party records follow the canonical
// naming pattern Camera.VehicleTPP_<id>_<height>_<tier>[_Combat], from which
// the short profile id is extracted directly.
//
// # Obfuscated Content
//
// Third-party content frequently ships hashed or renamed camera records that
// do not match the canonical pattern. For those, a structural fallback strips
// known namespace, prefix and level tokens from each binding key until a bare
// candidate id survives (see Candidate). Additionally, an explicit level->path
// map is built from the height/distance marker fields stored on each camera
// record, so modded records are addressed even when their names carry no level
// information at all.
//
// Marker data in third-party content is occasionally mislabeled: a record
// whose name says High can carry a Low height marker. The resolver corrects
// the stored marker once when the contradiction is detected. This mirrors a
// defect pattern observed in the wild and is a heuristic, not a verified
// invariant.
//
// # Caching
//
// All resolution results, including negative heuristic outcomes, are memoized
// per mounted vehicle and dropped when the session context changes. Store
// scans are too expensive to repeat every frame.
package resolver
