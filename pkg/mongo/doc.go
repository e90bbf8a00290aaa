// Package mongo manages the lifetime of the application's single MongoDB connection.
//
// A Manager is constructed once by the process entry point and handed to every
// service that needs the store. It connects with bounded exponential backoff,
// ensures the declared indexes after each successful connect, tracks the live
// connection state from driver heartbeats and disconnects on termination signals.
//
// # Usage
//
//	import (
//		"context"
//		"log/slog"
//		"os"
//
//		"github.com/dmitrymomot/prodigypm/pkg/mongo"
//	)
//
//	func main() {
//		log := slog.Default()
//		m := mongo.New(mongo.Resolve(), mongo.WithLogger(log))
//
//		if err := m.Connect(context.Background()); err != nil {
//			log.Error("startup aborted", "error", err)
//			os.Exit(1)
//		}
//
//		hook, _ := mongo.RegisterShutdownHook(m, mongo.WithShutdownLogger(log))
//		// ... serve requests using m.Database() ...
//		hook.Wait()
//	}
//
// # Configuration
//
// Resolve reads MONGODB_URI and MONGODB_DB_NAME, falling back to
// mongodb://localhost:27017/prodigypm and prodigypm. Pool size (2..10), idle
// timeout (30s), server selection timeout (5s) and socket timeout (45s) are fixed.
// The default retry policy makes 5 attempts with delays of 1s, 2s, 4s and 8s,
// capped at 30s (see DelayFor).
//
// # State
//
// The manager starts disconnected. Connect moves it through connecting to either
// connected or errored. While connected, a lost heartbeat moves it to
// disconnected and a recovered one back to connected; the manager does not
// reconnect on its own. Disconnect always leaves it disconnected.
//
// # Error Handling
//
// Connect returns *ConnectionError once retries are exhausted; index failures are
// logged as *IndexCreationError and do not fail Connect; Disconnect returns
// *DisconnectError when closing fails. All of them match their sentinel errors
// (ErrFailedToConnectToMongo, ErrIndexCreation, ErrDisconnect) with errors.Is.
//
// # See Also
//
// Documentation for the official driver: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2.
package mongo
