package pipeline

import "github.com/specialistvlad/shipgrid/internal/config"

// Version is stamped into the default artifacts' manifests.
const Version = "1.0-SNAPSHOT"

const (
	workerEntryPoint = "io.github.stcksmsh.kdp.worker.WorkerNode"
	serverEntryPoint = "io.github.stcksmsh.kdp.server.ServerNode"

	classesDir = "build/classes/kotlin/main"
	runtimeCP  = "build/runtime/*.jar"
	libsDir    = "build/libs"
)

// Default returns the built-in declaration: two runnable jars, one image
// per jar, a compose stack over both images, and the test suite.
func Default() *config.Model {
	jar := func(name, file, entryPoint, description string) *config.Task {
		return &config.Task{
			Name:        name,
			Group:       "build",
			Description: description,
			Artifact: &config.Artifact{
				Output:     libsDir + "/" + file,
				EntryPoint: entryPoint,
				Sources:    []string{classesDir, runtimeCP},
				Duplicates: "exclude",
				Manifest:   map[string]string{"Implementation-Version": Version},
			},
		}
	}

	return &config.Model{
		Variables: map[string]string{"version": Version},
		Tasks: []*config.Task{
			jar("createWorkerJar", "worker-node.jar", workerEntryPoint, "Assembles a runnable JAR for the WorkerNode."),
			jar("createServerJar", "server-node.jar", serverEntryPoint, "Assembles a runnable JAR for the ServerNode."),
			{
				Name:        "createJars",
				Group:       "build",
				Description: "Assembles both runnable JARs.",
				DependsOn:   []string{"createWorkerJar", "createServerJar"},
			},
			{
				Name:        "buildWorkerDocker",
				Group:       "docker",
				Description: "Builds the Docker image for WorkerNode.",
				DependsOn:   []string{"createWorkerJar"},
				Image: &config.Image{
					Tag:      "worker-node:latest",
					Recipe:   "docker/Dockerfile.worker",
					Context:  ".",
					Artifact: libsDir + "/worker-node.jar",
				},
			},
			{
				Name:        "buildServerDocker",
				Group:       "docker",
				Description: "Builds the Docker image for ServerNode.",
				DependsOn:   []string{"createServerJar"},
				Image: &config.Image{
					Tag:      "server-node:latest",
					Recipe:   "docker/Dockerfile.server",
					Context:  ".",
					Artifact: libsDir + "/server-node.jar",
				},
			},
			{
				Name:        "buildDockers",
				Group:       "docker",
				Description: "Builds both Docker images.",
				DependsOn:   []string{"buildWorkerDocker", "buildServerDocker"},
			},
			{
				Name:        "composeUp",
				Group:       "docker",
				Description: "Starts the Docker containers.",
				DependsOn:   []string{"buildDockers"},
				Stack: &config.Stack{
					File:   "docker-compose.yml",
					Images: []string{"worker-node:latest", "server-node:latest"},
				},
			},
			{
				Name:        "test",
				Group:       "verification",
				Description: "Runs the test suite.",
				Exec:        &config.Exec{Command: []string{"gradle", "test"}},
			},
		},
	}
}
