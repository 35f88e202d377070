package httpsafe

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	addrs []net.IPAddr
	err   error
}

func (f fakeResolver) LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error) {
	return f.addrs, f.err
}

func withResolver(t *testing.T, r Resolver) {
	t.Helper()
	prev := defaultResolver
	defaultResolver = r
	t.Cleanup(func() { defaultResolver = prev })
}

func TestResolvePublicAddrsRejectsNonPublicAddress(t *testing.T) {
	withResolver(t, fakeResolver{addrs: []net.IPAddr{{IP: net.ParseIP("10.0.0.1")}}})

	_, err := ResolvePublicAddrs(context.Background(), "internal.example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolved ip is not allowed")
}

func TestResolvePublicAddrsAcceptsAllPublicAndDeduplicates(t *testing.T) {
	withResolver(t, fakeResolver{addrs: []net.IPAddr{
		{IP: net.ParseIP("93.184.216.34")},
		{IP: net.ParseIP("93.184.216.34")},
		{IP: net.ParseIP("8.8.8.8")},
	}})

	addrs, err := ResolvePublicAddrs(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Len(t, addrs, 2)
}

func TestResolvePublicAddrsRejectsEmptyResolution(t *testing.T) {
	withResolver(t, fakeResolver{addrs: nil})

	_, err := ResolvePublicAddrs(context.Background(), "example.com")
	assert.Error(t, err)
}

func TestResolvePublicAddrsFailsOneNonPublicInSet(t *testing.T) {
	withResolver(t, fakeResolver{addrs: []net.IPAddr{
		{IP: net.ParseIP("8.8.8.8")},
		{IP: net.ParseIP("127.0.0.1")},
	}})

	_, err := ResolvePublicAddrs(context.Background(), "example.com")
	assert.Error(t, err)
}

func TestDNSConcurrencySemaphoreBoundsSimultaneousLookups(t *testing.T) {
	SetDNSConcurrency(1)
	t.Cleanup(func() { SetDNSConcurrency(32) })

	sem := dnsConcurrency
	ctx := context.Background()
	require.NoError(t, sem.acquire(ctx))

	ctx2, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := sem.acquire(ctx2)
	assert.Error(t, err)

	sem.release()
}
