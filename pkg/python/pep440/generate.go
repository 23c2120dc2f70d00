package pep440

import (
	"math/rand"
	"reflect"
	"testing/quick"

	"k8s.io/apimachinery/pkg/util/intstr"
)

func randBool(rand *rand.Rand) bool {
	return rand.Intn(2) == 1
}

func randSeg(rand *rand.Rand) int {
	return rand.Intn(3000)
}

func bound(low, val, high int) int {
	if val < low {
		val = low
	}
	if val > high {
		val = high
	}
	return val
}

func randIntPtr(rand *rand.Rand) *int {
	if !randBool(rand) {
		return nil
	}
	n := randSeg(rand)
	return &n
}

func randLocalSegment(rand *rand.Rand, size int) intstr.IntOrString {
	if randBool(rand) {
		return intstr.FromInt(randSeg(rand))
	}
	const (
		alpha    = "abcdefghijklmnopqrstuvwxyz"
		alphadig = alpha + "0123456789"
	)
	buf := make([]byte, 1+rand.Intn(bound(1, size, 10)))
	for i := range buf {
		if i == 0 {
			buf[i] = alpha[rand.Intn(len(alpha))]
		} else {
			buf[i] = alphadig[rand.Intn(len(alphadig))]
		}
	}
	return intstr.FromString(string(buf))
}

// Generate implements testing/quick.Generator.
func (Version) Generate(rand *rand.Rand, size int) reflect.Value {
	var ver Version
	if randBool(rand) {
		ver.Epoch = randSeg(rand)
	}
	ver.Release = make([]int, 1+rand.Intn(bound(1, size, 10)))
	for i := range ver.Release {
		ver.Release[i] = randSeg(rand)
	}
	if randBool(rand) {
		ver.Pre = &PreRelease{
			L: []string{"a", "b", "rc"}[rand.Intn(3)],
			N: randSeg(rand),
		}
	}
	ver.Post = randIntPtr(rand)
	ver.Dev = randIntPtr(rand)
	if randBool(rand) {
		ver.Local = make([]intstr.IntOrString, 1+rand.Intn(bound(1, size, 5)))
		for i := range ver.Local {
			ver.Local[i] = randLocalSegment(rand, size)
		}
	}
	return reflect.ValueOf(ver)
}

//nolint:exhaustivestruct
var _ quick.Generator = Version{}
