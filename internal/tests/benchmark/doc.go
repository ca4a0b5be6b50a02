// Package benchmark measures the sharded store under load.
//
//	go test -bench=. -benchmem ./internal/tests/benchmark/...
//
// BenchmarkStoreMixedParallel compares shard counts under contention and
// BenchmarkHash compares the routing hashes. Keep several runs and compare
// them with benchstat:
//
//	go test -bench=BenchmarkStore -benchmem -count=5 ./internal/tests/benchmark/... > new.txt
//	benchstat old.txt new.txt
package benchmark
