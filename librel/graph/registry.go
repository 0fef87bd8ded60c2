package graph

import "sync"

// PrimeSource issues an increasing series of primes.
type PrimeSource interface {
	NextPrime() uint64
}

// Registry assigns each distinct signed label a unique prime, in first-seen order.
type Registry struct {
	mu     sync.Mutex
	primes map[string]uint64
	labels []string
	src    PrimeSource
}

// NewRegistry returns an empty Registry drawing from src, or from sequential primes if src is nil.
func NewRegistry(src PrimeSource) *Registry {
	if src == nil {
		src = &SeqPrimes{}
	}
	return &Registry{
		primes: make(map[string]uint64),
		src:    src,
	}
}

// Prime returns the prime for the given signed label, assigning the next one if the label is new.
func (reg *Registry) Prime(signedLabel string) uint64 {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	p, exists := reg.primes[signedLabel]
	if !exists {
		p = reg.src.NextPrime()
		reg.primes[signedLabel] = p
		reg.labels = append(reg.labels, signedLabel)
	}
	return p
}

// Lookup returns the prime already assigned to the given signed label.
func (reg *Registry) Lookup(signedLabel string) (uint64, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	p, exists := reg.primes[signedLabel]
	return p, exists
}

// Labels returns registered signed labels in the order they were first seen.
func (reg *Registry) Labels() []string {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	return append([]string(nil), reg.labels...)
}

// SeqPrimes issues 2, 3, 5, 7, ... by trial division.
type SeqPrimes struct {
	issued []uint64
}

func (src *SeqPrimes) NextPrime() uint64 {
	n := uint64(2)
	if N := len(src.issued); N > 0 {
		n = src.issued[N-1] + 1
	}
	for ; ; n++ {
		isPrime := true
		for _, p := range src.issued {
			if p*p > n {
				break
			}
			if n%p == 0 {
				isPrime = false
				break
			}
		}
		if isPrime {
			src.issued = append(src.issued, n)
			return n
		}
	}
}
