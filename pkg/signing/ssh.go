// Package signing constructs commit signers backed by an SSH private key,
// for engines configured with commit.sign = true.
package signing

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/corevcs/corevcs/pkg/engine"
	"github.com/corevcs/corevcs/pkg/vcserr"
)

const signaturePrefix = "sshsig-v1"

// defaultKeyNames are tried, in order, under the user's ~/.ssh when no
// explicit key path is configured.
var defaultKeyNames = []string{"id_ed25519", "id_ecdsa", "id_rsa"}

// sshSigner binds a parsed private key to its already-marshalled public key,
// so NewSSHCommitSigner only has to parse the key once no matter how many
// commits the returned signer ends up signing.
type sshSigner struct {
	key    ssh.Signer
	pubB64 string
}

// Sign produces "sshsig-v1:<format>:<pubkey>:<signature>", all base64 except
// the format tag. Its method value satisfies engine.CommitSigner.
func (s *sshSigner) Sign(payload []byte) (string, error) {
	sig, err := s.key.Sign(rand.Reader, payload)
	if err != nil {
		return "", fmt.Errorf("signing: sign payload: %w", err)
	}
	sigB64 := base64.StdEncoding.EncodeToString(sig.Blob)
	return fmt.Sprintf("%s:%s:%s:%s", signaturePrefix, sig.Format, s.pubB64, sigB64), nil
}

// NewSSHCommitSigner loads a private key and returns an engine.CommitSigner
// bound to it, plus the resolved path actually used. If keyPath is empty,
// the first existing default key under ~/.ssh is tried instead.
func NewSSHCommitSigner(keyPath string) (engine.CommitSigner, string, error) {
	resolvedPath, err := firstExistingCandidate(keyPath)
	if err != nil {
		return nil, "", err
	}

	raw, err := os.ReadFile(resolvedPath)
	if err != nil {
		return nil, "", fmt.Errorf("signing: read key %q: %w", resolvedPath, err)
	}
	key, err := ssh.ParsePrivateKey(raw)
	if err != nil {
		return nil, "", fmt.Errorf("signing: parse key %q: %w", resolvedPath, err)
	}

	s := &sshSigner{key: key, pubB64: base64.StdEncoding.EncodeToString(key.PublicKey().Marshal())}
	return s.Sign, resolvedPath, nil
}

// firstExistingCandidate resolves keyPath to a single candidate (when
// non-empty) or the default ~/.ssh key names, and returns the first one that
// actually exists.
func firstExistingCandidate(keyPath string) (string, error) {
	candidates, err := candidatePaths(keyPath)
	if err != nil {
		return "", err
	}
	for _, candidate := range candidates {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("signing: no usable SSH private key among %v: %w", candidates, vcserr.ErrNotFound)
}

func candidatePaths(keyPath string) ([]string, error) {
	keyPath = strings.TrimSpace(keyPath)
	if keyPath != "" {
		expanded, err := expandUserPath(keyPath)
		if err != nil {
			return nil, err
		}
		return []string{expanded}, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("signing: resolve home dir: %w", err)
	}
	candidates := make([]string, len(defaultKeyNames))
	for i, name := range defaultKeyNames {
		candidates[i] = filepath.Join(home, ".ssh", name)
	}
	return candidates, nil
}

func expandUserPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return filepath.Abs(path)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("signing: resolve home dir: %w", err)
	}
	return filepath.Abs(filepath.Join(home, path[2:]))
}
