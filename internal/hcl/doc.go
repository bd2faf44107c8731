// Package hcl provides the concrete HCL implementation of the config.Loader
// interface, and a writer that renders a config.Model back to HCL.
//
// A declaration file holds `variable` and `task` blocks:
//
//	variable "version" {
//	  default = "1.0-SNAPSHOT"
//	}
//
//	task "createWorkerJar" {
//	  group       = "build"
//	  description = "Assembles the worker fat jar."
//
//	  artifact {
//	    output      = "build/libs/worker-node.jar"
//	    entry_point = "com.example.worker.WorkerNodeKt"
//	    sources     = ["build/classes/kotlin/main", "build/deps"]
//	    manifest    = { "Implementation-Version" = var.version }
//	  }
//	}
//
// Expressions may reference `var.<name>` and `env.<NAME>` and call the
// functions upper, lower, join, format, concat and coalesce.
package hcl
