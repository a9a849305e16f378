package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeOwners(t *testing.T) {
	t.Parallel()
	require.Equal(t, "", EncodeOwners(nil))
	require.Equal(t, "3", EncodeOwners([]int{3}))
	require.Equal(t, "1,2,7", EncodeOwners([]int{1, 2, 7}))
}

func TestDecodeOwners(t *testing.T) {
	t.Parallel()
	require.Nil(t, DecodeOwners(""))
	require.Equal(t, []int{3}, DecodeOwners("3"))
	require.Equal(t, []int{1, 2, 7}, DecodeOwners("1,2,7"))
	require.Equal(t, []int{1, 2}, DecodeOwners(" 1 , 2 ,"))
}
