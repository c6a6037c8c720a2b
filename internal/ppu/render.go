package ppu

import "gones/internal/cartridge"

// renderFrame draws the full background and sprite layers to the sink, per
// spec §4.3. Rendering happens once per frame at (241,1) rather than dot by
// dot; only the sprite-0-hit heuristic is evaluated per dot (see Clock).
func (p *PPU) renderFrame() error {
	if p.mask&maskBGEnable != 0 {
		if err := p.renderBackground(); err != nil {
			return err
		}
	}
	if p.mask&maskSprEnable != 0 {
		if err := p.renderSprites(); err != nil {
			return err
		}
	}
	return nil
}

// nametablePair resolves the primary/secondary nametable base addresses
// for the current mirroring mode and control.nametable_offset, following
// the table in original_source's render_background.
func (p *PPU) nametablePair() (nt1, nt2 uint16) {
	offset := uint16(p.ctrl&0x03) * 0x400
	switch {
	case p.Mirroring == cartridge.Vertical && (offset == 0x000 || offset == 0x800),
		p.Mirroring == cartridge.Horizontal && (offset == 0x000 || offset == 0x400):
		return 0x2000, 0x2400
	default:
		return 0x2400, 0x2000
	}
}

// renderBackground renders the primary nametable shifted into view by the
// scroll offsets, then fills in the wrapped remainder from the secondary
// nametable, matching original_source's two-pass scroll model.
func (p *PPU) renderBackground() error {
	nt1, nt2 := p.nametablePair()
	sx, sy := int(p.scrollX), int(p.scrollY)

	if err := p.renderNametableRegion(nt1, sx, sy, 255, 239, -sx, -sy); err != nil {
		return err
	}
	if sx > 0 {
		if err := p.renderNametableRegion(nt2, 0, 0, sx-1, 239, 256-sx, 0); err != nil {
			return err
		}
	} else if sy > 0 {
		if err := p.renderNametableRegion(nt2, 0, 0, 255, sy-1, 0, 240-sy); err != nil {
			return err
		}
	}
	return nil
}

// renderNametableRegion draws the nametable-space rectangle [vx0,vy0]..
// [vx1,vy1] of nametable nt to the screen, offset by (offsetX,offsetY);
// pixels landing outside the visible 256x240 frame are dropped.
func (p *PPU) renderNametableRegion(nt uint16, vx0, vy0, vx1, vy1, offsetX, offsetY int) error {
	patternBase := uint16(0)
	if p.ctrl&ctrlBGTable != 0 {
		patternBase = 0x1000
	}

	for wy := vy0; wy <= vy1; wy++ {
		for wx := vx0; wx <= vx1; wx++ {
			sxPix, syPix := offsetX+wx, offsetY+wy
			if sxPix < 0 || sxPix >= 256 || syPix < 0 || syPix >= 240 {
				continue
			}
			col, row := wx/8, wy/8
			tileID, err := p.Bus.Read(nt + uint16(row*32+col))
			if err != nil {
				return err
			}
			attrByte, err := p.Bus.Read(nt + 0x3C0 + uint16((row/4)*8+col/4))
			if err != nil {
				return err
			}
			quadShift := uint(((row%4)/2)*4 + ((col%4)/2)*2)
			paletteID := (attrByte >> quadShift) & 0x03

			fineY := wy % 8
			lo, err := p.Bus.Read(patternBase + uint16(tileID)*16 + uint16(fineY))
			if err != nil {
				return err
			}
			hi, err := p.Bus.Read(patternBase + uint16(tileID)*16 + uint16(fineY) + 8)
			if err != nil {
				return err
			}
			bit := 7 - uint(wx%8)
			pixel := ((hi>>bit)&1)<<1 | (lo>>bit)&1

			var paletteAddr uint16
			if pixel == 0 {
				paletteAddr = 0x3F00
			} else {
				paletteAddr = 0x3F00 + uint16(paletteID)*4 + uint16(pixel)
			}
			if err := p.plot(sxPix, syPix, paletteAddr); err != nil {
				return err
			}
		}
	}
	return nil
}

// renderSprites iterates OAM as 64 4-byte entries and draws each sprite's
// non-transparent pixels, per spec §4.3.
func (p *PPU) renderSprites() error {
	height := 8
	if p.ctrl&ctrlSpriteHeight != 0 {
		height = 16
	}

	for i := 0; i < 64; i++ {
		base := i * 4
		tileY := p.oam[base]
		tileID := p.oam[base+1]
		attr := p.oam[base+2]
		tileX := p.oam[base+3]

		flipV := attr&0x80 != 0
		flipH := attr&0x40 != 0
		paletteID := attr & 0x03

		var patternTable uint16
		var tileBase uint16
		if height == 8 {
			if p.ctrl&ctrlSpriteTable != 0 {
				patternTable = 0x1000
			}
			tileBase = uint16(tileID)
		} else {
			patternTable = uint16(tileID&0x01) * 0x1000
			tileBase = uint16(tileID &^ 0x01)
		}

		for row := 0; row < height; row++ {
			effRow := row
			if flipV {
				effRow = height - 1 - row
			}
			var patTile uint16
			rowInTile := effRow
			if height == 16 {
				if effRow < 8 {
					patTile = tileBase
				} else {
					patTile = tileBase + 1
					rowInTile = effRow - 8
				}
			} else {
				patTile = tileBase
			}
			lo, err := p.Bus.Read(patternTable + patTile*16 + uint16(rowInTile))
			if err != nil {
				return err
			}
			hi, err := p.Bus.Read(patternTable + patTile*16 + uint16(rowInTile) + 8)
			if err != nil {
				return err
			}
			for col := 0; col < 8; col++ {
				effCol := col
				if flipH {
					effCol = 7 - col
				}
				bit := 7 - uint(effCol)
				pixel := ((hi>>bit)&1)<<1 | (lo>>bit)&1
				if pixel == 0 {
					continue
				}
				sxPix, syPix := int(tileX)+col, int(tileY)+row
				if sxPix < 0 || sxPix >= 256 || syPix < 0 || syPix >= 240 {
					continue
				}
				paletteAddr := 0x3F00 + uint16(0x11) + uint16(paletteID)*4 + uint16(pixel) - 1
				if err := p.plot(sxPix, syPix, paletteAddr); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// plot resolves a palette address to RGB (with greyscale and emphasis
// applied) and draws it to the sink.
func (p *PPU) plot(x, y int, paletteAddr uint16) error {
	colorIndex, err := p.Bus.Read(paletteAddr)
	if err != nil {
		return err
	}
	if p.mask&maskGreyscale != 0 {
		colorIndex &= 0x30
	}
	rgb := applyEmphasis(p.mask, ntscPalette[colorIndex&0x3F])
	return p.Sink.DrawPixel(x, y, rgb)
}
