// Package tweakdb provides access to the live path-addressed tunable store.
//
// The store represents the host's camera tunables: a flat map from dotted
// string paths (e.g. "Camera.VehicleTPP_car_red_High_Close.z") to scalar
// values. The camera core only ever reads and writes through the Store
// interface, so the backing implementation is interchangeable.
//
// # Implementations
//
//   - Memory: plain in-memory map, used by tests and by hosts that push a
//     snapshot of their tunables into the process.
//   - Gorm: database-backed store (pure-Go SQLite or MySQL) so a standalone
//     service keeps tunables across restarts.
//
// # Connect
//
// The generic Connect function establishes the database connection for the
// Gorm-backed store. It supports the "sqlite" and "mysql" drivers; "memory"
// skips the database entirely.
//
// # Usage
//
//	store := tweakdb.NewMemory()
//	store.Set("Vehicle.car_red.tppCameraPresets", []string{"Camera.VehicleTPP_car_red_High_Close"})
//	v, ok := store.Get("Camera.VehicleTPP_car_red_High_Close.z")
package tweakdb
