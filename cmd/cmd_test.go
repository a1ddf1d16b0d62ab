package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projecteru2/macchanger/config"
	"github.com/projecteru2/macchanger/mac"
	"github.com/projecteru2/macchanger/netdev"
	"github.com/projecteru2/macchanger/netdev/netdevtest"
)

func eth0() netdev.Record {
	rec := netdev.Record{Name: "eth0", Family: 1, Flags: 0x1043, Index: 2}
	copy(rec.Data[:], []byte{0x52, 0x54, 0x00, 0x12, 0x34, 0x56})
	return rec
}

// useFake routes every command through b for the duration of the test.
func useFake(t *testing.T, b *netdevtest.Backend) {
	t.Helper()
	orig := newBackend
	newBackend = func(*config.Config) (netdev.Backend, error) { return b, nil }
	t.Cleanup(func() { newBackend = orig })
}

// run executes the CLI with a private lock dir ahead of args.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runIn(t, t.TempDir(), args...)
}

func runIn(t *testing.T, lockDir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--lock-dir", lockDir}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func parseOut(t *testing.T, out string) mac.Address {
	t.Helper()
	line := strings.TrimSuffix(out, "\n")
	require.NotContains(t, line, "\n", "exactly one line expected")
	a, err := mac.Parse(line)
	require.NoError(t, err)
	require.Equal(t, a.String(), line, "output must be canonical")
	return a
}

// --- apply ---

func TestApply_Default(t *testing.T) {
	b := netdevtest.New(eth0())
	useFake(t, b)

	out, err := run(t, "eth0")
	require.NoError(t, err)

	a := parseOut(t, out)
	assert.True(t, a.IsUnicast())
	assert.True(t, a.IsLocal())

	rec, _ := b.Record("eth0")
	assert.Equal(t, a, rec.Address())
	assert.Equal(t, eth0().Flags, rec.Flags)
	assert.Equal(t, 1, b.Sets)
}

func TestApply_Flags(t *testing.T) {
	b := netdevtest.New(eth0())
	useFake(t, b)

	out, err := run(t, "-m", "-u", "eth0")
	require.NoError(t, err)
	a := parseOut(t, out)
	assert.True(t, a.IsMulticast())
	assert.True(t, a.IsUniversal())

	out, err = run(t, "--universal", "eth0")
	require.NoError(t, err)
	a = parseOut(t, out)
	assert.True(t, a.IsUnicast())
	assert.True(t, a.IsUniversal())
}

func TestApply_NotFound(t *testing.T) {
	b := netdevtest.New(eth0())
	useFake(t, b)

	out, err := run(t, "eth9")
	require.Error(t, err)
	assert.ErrorIs(t, err, netdev.ErrInterfaceNotFound)
	assert.Empty(t, out, "nothing printed on failure")
	assert.Equal(t, 0, b.Sets)
}

func TestApply_PermissionDenied(t *testing.T) {
	b := netdevtest.New(eth0())
	b.SetErr = syscall.EPERM
	useFake(t, b)

	out, err := run(t, "eth0")
	assert.ErrorIs(t, err, netdev.ErrApply)
	assert.Empty(t, out)
}

func TestApply_ChannelDenied(t *testing.T) {
	b := netdevtest.New(eth0())
	b.OpenErr = syscall.EACCES
	useFake(t, b)

	_, err := run(t, "eth0")
	assert.ErrorIs(t, err, netdev.ErrChannelOpen)
	assert.Equal(t, 0, b.Gets)
}

func TestApply_DryRun(t *testing.T) {
	b := netdevtest.New(eth0())
	useFake(t, b)

	out, err := run(t, "--dry-run", "-m", "eth0")
	require.NoError(t, err)
	assert.True(t, parseOut(t, out).IsMulticast())
	assert.Equal(t, 0, b.Opens)
}

func TestApply_Args(t *testing.T) {
	useFake(t, netdevtest.New(eth0()))

	_, err := run(t)
	require.Error(t, err)
	_, err = run(t, "eth0", "eth1")
	require.Error(t, err, "one interface per invocation")
}

func TestApply_LockFileCreated(t *testing.T) {
	useFake(t, netdevtest.New(eth0()))
	dir := t.TempDir()

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"eth0", "--lock-dir", dir})
	require.NoError(t, cmd.Execute())
	assert.FileExists(t, filepath.Join(dir, "eth0.lock"))
}

func TestApply_LockDirNotWritable(t *testing.T) {
	b := netdevtest.New(eth0())
	useFake(t, b)
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	lockDir := filepath.Join(file, "macchanger")

	out, err := runIn(t, lockDir, "eth0")
	require.NoError(t, err, "an unusable lock dir must not block the change")
	assert.Equal(t, parseOut(t, out), mustRecord(t, b, "eth0").Address())

	_, err = runIn(t, lockDir, "nosuch0")
	assert.ErrorIs(t, err, netdev.ErrInterfaceNotFound, "interface error surfaces, not a lock error")
}

func TestApply_LockDirPermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	b := netdevtest.New(eth0())
	b.OpenErr = syscall.EPERM
	useFake(t, b)
	lockDir := t.TempDir()
	require.NoError(t, os.Chmod(lockDir, 0o500))
	t.Cleanup(func() { _ = os.Chmod(lockDir, 0o700) })

	_, err := runIn(t, filepath.Join(lockDir, "sub"), "eth0")
	assert.ErrorIs(t, err, netdev.ErrChannelOpen)
}

func TestApply_NameNeverReachesLockDir(t *testing.T) {
	for _, name := range []string{"../x", "a/b", "eth0:1", "."} {
		b := netdevtest.New(eth0())
		useFake(t, b)
		root := t.TempDir()
		lockDir := filepath.Join(root, "locks")

		out, err := runIn(t, lockDir, name)
		assert.ErrorIs(t, err, netdev.ErrInvalidName, "%q", name)
		assert.Empty(t, out)
		assert.Equal(t, 0, b.Opens, "%q", name)
		assert.NoDirExists(t, lockDir, "%q", name)
		assert.NoFileExists(t, filepath.Join(root, "x.lock"), "%q", name)

		_, err = runIn(t, lockDir, "--dry-run", name)
		assert.ErrorIs(t, err, netdev.ErrInvalidName, "dry run validates too: %q", name)
	}
}

func TestApply_InterfaceNamedLikeSubcommand(t *testing.T) {
	rec := eth0()
	rec.Name = "show"
	b := netdevtest.New(rec)
	useFake(t, b)

	out, err := run(t, "--", "show")
	require.NoError(t, err)
	assert.Equal(t, parseOut(t, out), mustRecord(t, b, "show").Address())
	assert.Equal(t, 1, b.Sets)

	out, err = run(t, "show", "show")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "show\t"))
}

func mustRecord(t *testing.T, b *netdevtest.Backend, name string) netdev.Record {
	t.Helper()
	rec, ok := b.Record(name)
	require.True(t, ok, name)
	return rec
}

// --- config layering ---

func TestConfig_File(t *testing.T) {
	useFake(t, netdevtest.New(eth0()))
	path := filepath.Join(t.TempDir(), "macchanger.yaml")
	require.NoError(t, os.WriteFile(path, []byte("address:\n  multicast: true\n"), 0o600))

	out, err := run(t, "--config", path, "eth0")
	require.NoError(t, err)
	assert.True(t, parseOut(t, out).IsMulticast())
	assert.Equal(t, config.BackendIoctl, conf.Backend)
}

func TestConfig_Env(t *testing.T) {
	useFake(t, netdevtest.New(eth0()))
	t.Setenv("MACCHANGER_BACKEND", "netlink")
	t.Setenv("MACCHANGER_NETNS", "blue")

	_, err := run(t, "--dry-run", "eth0")
	require.NoError(t, err)
	assert.Equal(t, config.BackendNetlink, conf.Backend)
	assert.Equal(t, "/var/run/netns/blue", conf.NetnsFile())
}

func TestConfig_FlagBeatsEnv(t *testing.T) {
	useFake(t, netdevtest.New(eth0()))
	t.Setenv("MACCHANGER_BACKEND", "netlink")

	_, err := run(t, "--dry-run", "--backend", "ioctl", "eth0")
	require.NoError(t, err)
	assert.Equal(t, config.BackendIoctl, conf.Backend)
}

func TestConfig_BadBackend(t *testing.T) {
	useFake(t, netdevtest.New(eth0()))

	_, err := run(t, "--backend", "sysfs", "eth0")
	require.Error(t, err)
}

func TestConfig_MissingFile(t *testing.T) {
	_, err := run(t, "--config", "/nonexistent/macchanger.yaml", "eth0")
	require.Error(t, err)
}

// --- show / version ---

func TestShow(t *testing.T) {
	b := netdevtest.New(eth0())
	useFake(t, b)

	out, err := run(t, "show", "eth0")
	require.NoError(t, err)
	assert.Equal(t, "eth0\t52:54:00:12:34:56\tunicast, local\n", out)
	assert.Equal(t, 0, b.Sets)

	_, err = run(t, "show", "eth9")
	assert.ErrorIs(t, err, netdev.ErrInterfaceNotFound)

	_, err = run(t, "show", "../x")
	assert.ErrorIs(t, err, netdev.ErrInvalidName)
	assert.Equal(t, 2, b.Opens, "invalid name never opens a channel")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "macchanger\n"))
}

// --- backend selection ---

func TestInitBackend(t *testing.T) {
	c := config.DefaultConfig()
	b, err := initBackend(c)
	require.NoError(t, err)
	assert.Equal(t, config.BackendIoctl, b.Type())

	c.Backend = config.BackendNetlink
	b, err = initBackend(c)
	require.NoError(t, err)
	assert.Equal(t, config.BackendNetlink, b.Type())

	c.Backend = "sysfs"
	_, err = initBackend(c)
	require.Error(t, err)
}
