package topology

import (
	"strconv"

	"paralaunch/internal/config"
)

// Dockerfile is a build context descriptor written next to the genesis files.
type Dockerfile struct {
	Name    string
	Content []byte
}

// ParachainDockerfile is the file name of parachain id's Dockerfile.
func ParachainDockerfile(id int) string {
	return "parachain-" + strconv.Itoa(id) + ".Dockerfile"
}

// Dockerfiles returns the relay chain Dockerfile followed by one per
// parachain. Each copies the output directory into /app of its image.
func Dockerfiles(net *config.Network) []Dockerfile {
	files := []Dockerfile{{Name: relayDockerfile, Content: dockerfile(net.Relaychain.Image)}}
	for _, p := range net.Parachains {
		files = append(files, Dockerfile{Name: ParachainDockerfile(p.ID), Content: dockerfile(p.Image)})
	}
	return files
}

func dockerfile(image string) []byte {
	return []byte("FROM " + image + "\nCOPY . /app")
}
