// Package netrc reads git credentials from the user's .netrc file.
package netrc

import (
	"bufio"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/daedaleanai/pbt/log"

	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/mitchellh/go-homedir"
)

// Netrc maps machine names onto credentials.
type Netrc struct {
	machines map[string]http.BasicAuth
}

// Parse reads the machine, login and password entries of a netrc file.
// Other tokens are ignored.
func Parse(r io.Reader) (*Netrc, error) {
	n := &Netrc{machines: map[string]http.BasicAuth{}}

	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	machine := ""
	for scanner.Scan() {
		token := scanner.Text()
		if token == "default" {
			machine = ""
			continue
		}
		if token != "machine" && token != "login" && token != "password" {
			continue
		}
		if !scanner.Scan() {
			break
		}
		value := scanner.Text()

		switch token {
		case "machine":
			machine = value
		case "login":
			if machine != "" {
				auth := n.machines[machine]
				auth.Username = value
				n.machines[machine] = auth
			}
		case "password":
			if machine != "" {
				auth := n.machines[machine]
				auth.Password = value
				n.machines[machine] = auth
			}
		}
	}
	return n, scanner.Err()
}

// Load reads ~/.netrc. A missing file yields no credentials.
func Load() *Netrc {
	empty := &Netrc{machines: map[string]http.BasicAuth{}}
	home, err := homedir.Dir()
	if err != nil {
		log.Warning("Unable to find home directory. netrc not parsed.\n")
		return empty
	}

	netrcPath := filepath.Join(home, ".netrc")
	f, err := os.Open(netrcPath)
	if err != nil {
		log.Debug("Not reading %q: %s\n", netrcPath, err)
		return empty
	}
	defer f.Close()

	n, err := Parse(f)
	if err != nil {
		log.Warning("Error reading %q: %s\n", netrcPath, err)
		return empty
	}
	return n
}

// AuthForURL returns the credentials for the host of `rawURL`, or nil.
func (n *Netrc) AuthForURL(rawURL string) *http.BasicAuth {
	if n == nil {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		log.Warning("Invalid URL %q.\n", rawURL)
		return nil
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil
	}
	if auth, ok := n.machines[u.Hostname()]; ok {
		return &auth
	}
	return nil
}
