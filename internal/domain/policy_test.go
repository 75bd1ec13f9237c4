package domain_test

import (
	"sync"
	"testing"

	"github.com/cacack/go-eventstore/internal/domain"
)

func TestRetentionPolicyProvider_FallbackAndOverride(t *testing.T) {
	p := domain.NewRetentionPolicyProvider(domain.Default)

	if got := p.Resolve("unknown-domain"); got != domain.Default {
		t.Errorf("Resolve(unconfigured) = %v, want Default", got)
	}

	p.Set("orders", domain.ColdArchivable)
	if got := p.Resolve("orders"); got != domain.ColdArchivable {
		t.Errorf("Resolve(orders) = %v, want ColdArchivable", got)
	}
	if got := p.Resolve("invoices"); got != domain.Default {
		t.Errorf("Resolve(invoices) = %v, want Default (untouched by orders' override)", got)
	}
}

func TestRetentionPolicyProvider_ConcurrentReads(t *testing.T) {
	p := domain.NewRetentionPolicyProvider(domain.FullHistory)
	p.Set("orders", domain.ColdArchivable)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := p.Resolve("orders"); got != domain.ColdArchivable {
				t.Errorf("Resolve(orders) = %v, want ColdArchivable", got)
			}
		}()
	}
	wg.Wait()
}
