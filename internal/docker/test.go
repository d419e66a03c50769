package docker

import (
	"fmt"
	"time"
)

// defaultProbe is the command run inside the image when the caller
// supplies none. --help is cheap and exercises the entrypoint.
var defaultProbe = []string{"--help"}

// Test runs the image in an ephemeral container and reports whether the
// probe command exited cleanly. The container name is derived from the
// current time so repeated or overlapping invocations never collide.
func (c *Client) Test(image string, command []string) (bool, string) {
	if len(command) == 0 {
		command = defaultProbe
	}

	name := fmt.Sprintf("devkit-test-%d", time.Now().UnixNano())

	argv := append([]string{"docker", "run", "--rm", "--name", name, image}, command...)
	result, err := c.run.Run(argv)
	if err != nil {
		// --rm should have removed the container already; force removal
		// anyway and swallow the cleanup error, it must never mask the
		// test failure.
		_, _ = c.run.Run([]string{"docker", "rm", "-f", name})

		if result != nil && result.Stderr != "" {
			return false, result.Stderr
		}
		return false, err.Error()
	}

	return true, result.Stdout
}
