/*
 * doc.go, part of molgrid.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

/*Package molgrid is the main package of the molgrid library. It turns receptor-ligand
models into fixed-size, multi-channel voxel grids for convolutional scoring networks.



	**molgrid Capabilities**


    Cubic grids of any resolution and size, centered at a given point or on each ligand.

    Atom types map to channels through type maps, several types can share a channel.
	The gnina defaults are built in, other maps are read from text files.

    Gaussian densities (or binary occupancies) computed with the same kernel on two paths:
	a sequential host path and a data-parallel device path, with device memory
	accounting. CPUSetModelCheck compares both.

    Receptor grids are cached while the receptor and the box don't change.

    Random rotations and translations for data augmentation, reproducible from a seed.

    Boxes can be split into overlapping subgrids.

    Extra channels can be read from OpenDX files.

    Grids are returned in memory, or written as raw binary (optionally compressed),
	AutoDock4 maps or OpenDX files. Slices can be plotted.

    Molecules are read from PDB, XYZ and gninatypes files (see the mol package).


A Gridder is built from Options, which can be read from a configuration file with ReadConfig. Then,
for each model, SetModel computes the grids, and OutputMem or one of the Output* methods
retrieves them. MolsGridder does the same for the models produced by a mol.Getter.*/
package molgrid
