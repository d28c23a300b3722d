// Package credentials generates temporary passwords for accounts created by an admin.
package credentials

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var adjectives = []string{
	"brave", "bright", "clever", "daring", "eager", "gentle", "hidden", "jolly",
	"mighty", "noble", "quick", "royal", "silent", "swift", "wild", "wise",
	"ancient", "bold", "cosmic", "dusty", "golden", "misty", "rusty", "stormy",
}

var nouns = []string{
	"dragon", "wizard", "dwarf", "hobbit", "eagle", "troll", "goblin", "ranger",
	"mountain", "forest", "river", "lantern", "ring", "shield", "sword", "map",
	"barrel", "tunnel", "cavern", "riddle", "spider", "beacon", "anvil", "harp",
}

// GenerateTemporaryPassword returns a password of the form "adjective-noun-1234"
func GenerateTemporaryPassword() (string, error) {
	adjective, err := randomElement(adjectives)
	if err != nil {
		return "", err
	}

	noun, err := randomElement(nouns)
	if err != nil {
		return "", err
	}

	num, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s-%04d", adjective, noun, num.Int64()), nil
}

// randomElement picks a random element from a string slice
func randomElement(slice []string) (string, error) {
	if len(slice) == 0 {
		return "", nil
	}

	num, err := rand.Int(rand.Reader, big.NewInt(int64(len(slice))))
	if err != nil {
		return "", err
	}

	return slice[num.Int64()], nil
}
