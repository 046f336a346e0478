package bootstrap

import "github.com/tghbhs/science-carnival/backend/internal/models"

// starterArticles is the wiki content a fresh site starts with, one article
// per science department.
var starterArticles = []models.NewWikiContent{
	{
		Title:    "Physics: The Science of Motion",
		Category: "Physics",
		Content: `<p>Physics is the natural science that studies matter, its fundamental constituents, its motion and behavior through space and time, and the related entities of energy and force.</p>

<h3>Newton's Laws of Motion</h3>
<p>Isaac Newton's three laws of motion describe the relationship between a body and the forces acting upon it, and its motion in response to those forces.</p>
<ol>
  <li><strong>First Law:</strong> An object at rest stays at rest and an object in motion stays in motion unless acted upon by an unbalanced force.</li>
  <li><strong>Second Law:</strong> The acceleration of an object is directly proportional to the net force and inversely proportional to its mass.</li>
  <li><strong>Third Law:</strong> For every action, there is an equal and opposite reaction.</li>
</ol>

<h3>Experiment: Demonstrating Inertia</h3>
<p>Place a card on a smooth surface with a coin on top, then quickly pull the card horizontally. The coin stays in place due to inertia.</p>`,
	},
	{
		Title:    "Introduction to Chemistry",
		Category: "Chemistry",
		Content: `<p>Chemistry is the scientific study of the properties and behavior of matter, from the elements to the compounds composed of atoms, molecules and ions.</p>

<h3>States of Matter</h3>
<ul>
  <li><strong>Solid:</strong> Fixed shape and volume; particles closely packed.</li>
  <li><strong>Liquid:</strong> Fixed volume but takes the shape of its container.</li>
  <li><strong>Gas:</strong> No fixed shape or volume; particles move freely.</li>
  <li><strong>Plasma:</strong> Similar to gas but with a high number of electrons and ions.</li>
</ul>

<h3>Experiment: Creating a Chemical Reaction</h3>
<p>Place a few tablespoons of baking soda in a clear container and slowly pour in vinegar. The bubbling reaction produces carbon dioxide gas.</p>`,
	},
	{
		Title:    "Exploring Biology",
		Category: "Biology",
		Content: `<p>Biology is the scientific study of life. All organisms are made up of cells that process hereditary information encoded in genes, which can be transmitted to future generations.</p>

<h3>Cell Structure</h3>
<ul>
  <li><strong>Prokaryotic cells:</strong> Simpler cells without a nucleus, found in bacteria and archaea.</li>
  <li><strong>Eukaryotic cells:</strong> Cells with a nucleus and membrane-bound organelles, found in plants, animals, and fungi.</li>
</ul>

<h3>Experiment: Observing Plant Cells</h3>
<p>Place a thin piece of onion skin in a drop of water on a glass slide, cover it, and observe the rectangular plant cells under a microscope.</p>`,
	},
}
