package services

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budayachain/budaya-backend/internal/solana/solanatest"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}

func encodePayload(t *testing.T, payload *QRPayload) string {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return string(raw)
}

func TestQRVerifyAuthentic(t *testing.T) {
	f := newFixture(t)
	artisan, session := f.artisan(t, true)
	product := f.listedProduct(t, artisan, session)
	svc := NewQRService(f.store)

	payload, err := svc.BuildPayload(product)
	require.NoError(t, err)
	assert.Equal(t, 1, payload.V)
	assert.Equal(t, *product.NFTAddress, payload.NFT)

	result, err := svc.Verify(f.ctx, encodePayload(t, payload))
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, QRStatusAuthentic, result.Status)
	require.NotNil(t, result.Product)
	assert.Equal(t, product.ID, result.Product.ID)
}

func TestQRVerifyStatuses(t *testing.T) {
	f := newFixture(t)
	artisan, session := f.artisan(t, true)
	product := f.listedProduct(t, artisan, session)
	svc := NewQRService(f.store)

	cases := []struct {
		name   string
		mutate func(p *QRPayload)
		want   string
	}{
		{"counterfeit nft", func(p *QRPayload) { p.NFT = solanatest.NewAddress().String() }, QRStatusCounterfeit},
		{"tampered hash", func(p *QRPayload) { p.Hash = "deadbeef" }, QRStatusTampered},
		{"tampered artisan", func(p *QRPayload) { p.Art = uuid.NewString() }, QRStatusTampered},
		{"unknown product", func(p *QRPayload) { p.PID = uuid.NewString() }, QRStatusNotFound},
		{"expired", func(p *QRPayload) { p.TS = time.Now().AddDate(-6, 0, 0).Unix() }, QRStatusExpired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload, err := svc.BuildPayload(product)
			require.NoError(t, err)
			tc.mutate(payload)

			result, err := svc.Verify(f.ctx, encodePayload(t, payload))
			require.NoError(t, err)
			assert.False(t, result.Valid)
			assert.Equal(t, tc.want, result.Status)
			assert.Nil(t, result.Product)
		})
	}
}

func TestQRVerifyDetectsEditedProduct(t *testing.T) {
	f := newFixture(t)
	artisan, session := f.artisan(t, true)
	product := f.listedProduct(t, artisan, session)
	svc := NewQRService(f.store)

	payload, err := svc.BuildPayload(product)
	require.NoError(t, err)

	title := "Kain Tenun Ikat Sumba Asli"
	_, err = f.products().UpdateProduct(f.ctx, product.ID, session, &UpdateProductRequest{Title: &title})
	require.NoError(t, err)

	result, err := svc.Verify(f.ctx, encodePayload(t, payload))
	require.NoError(t, err)
	assert.Equal(t, QRStatusTampered, result.Status)
}

func TestQRVerifyMalformed(t *testing.T) {
	svc := NewQRService(newFixture(t).store)

	for _, raw := range []string{
		"",
		"not json",
		`{"v":2,"nft":"x","pid":"` + uuid.NewString() + `","hash":"h","ts":1}`,
		`{"v":1,"nft":"","pid":"` + uuid.NewString() + `","hash":"h","ts":1}`,
		`{"v":1,"nft":"x","pid":"not-a-uuid","hash":"h","ts":1}`,
	} {
		_, err := svc.Verify(newFixture(t).ctx, raw)
		assert.ErrorIs(t, err, ErrInvalidQR, raw)
	}
}

func TestGenerateQR(t *testing.T) {
	f := newFixture(t)
	artisan, session := f.artisan(t, true)
	svc := NewQRService(f.store)

	listed := f.listedProduct(t, artisan, session)
	png, err := svc.GenerateQR(f.ctx, listed.ID, 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))

	draft := f.draftProduct(t, artisan, session)
	_, err = svc.GenerateQR(f.ctx, draft.ID, 256)
	assert.ErrorIs(t, err, ErrNFTRequired)
}

func TestClampSize(t *testing.T) {
	assert.Equal(t, 256, clampSize(0))
	assert.Equal(t, 128, clampSize(10))
	assert.Equal(t, 512, clampSize(512))
	assert.Equal(t, 1024, clampSize(4096))
}
