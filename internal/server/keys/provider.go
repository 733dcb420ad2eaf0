package keys

import (
	"context"
	"crypto/rsa"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Provider parses and caches purpose-scoped RSA keys read from a Source.
// Failed reads are not cached, so a key placed later is picked up on the
// next call.
type Provider struct {
	source Source

	mu      sync.RWMutex
	private map[string]*rsa.PrivateKey
	public  map[string]*rsa.PublicKey
}

func NewProvider(source Source) *Provider {
	return &Provider{
		source:  source,
		private: make(map[string]*rsa.PrivateKey),
		public:  make(map[string]*rsa.PublicKey),
	}
}

// PrivateKey returns the signing key for purpose or a KeyUnavailable error.
func (p *Provider) PrivateKey(ctx context.Context, purpose string) (*rsa.PrivateKey, error) {
	p.mu.RLock()
	k, ok := p.private[purpose]
	p.mu.RUnlock()
	if ok {
		return k, nil
	}

	name := PrivateKeyName(purpose)
	b, err := p.source.Read(ctx, name)
	if err != nil {
		return nil, common.KeyUnavailable("private key for "+purpose, err)
	}
	k, err = jwt.ParseRSAPrivateKeyFromPEM(b)
	if err != nil {
		return nil, common.KeyUnavailable("parse "+name, err)
	}

	p.mu.Lock()
	p.private[purpose] = k
	p.mu.Unlock()
	return k, nil
}

// PublicKey returns the verification key for purpose or a KeyUnavailable error.
func (p *Provider) PublicKey(ctx context.Context, purpose string) (*rsa.PublicKey, error) {
	p.mu.RLock()
	k, ok := p.public[purpose]
	p.mu.RUnlock()
	if ok {
		return k, nil
	}

	name := PublicKeyName(purpose)
	b, err := p.source.Read(ctx, name)
	if err != nil {
		return nil, common.KeyUnavailable("public key for "+purpose, err)
	}
	k, err = jwt.ParseRSAPublicKeyFromPEM(b)
	if err != nil {
		return nil, common.KeyUnavailable("parse "+name, err)
	}

	p.mu.Lock()
	p.public[purpose] = k
	p.mu.Unlock()
	return k, nil
}
